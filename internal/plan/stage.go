package plan

// Stage is an ordered container of actions. Stages are totally ordered
// within a plan: everything in stage i completes before stage i+1 starts.
type Stage struct {
	name    string
	actions []Action
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// AddAction appends an action. Call order is significant and preserved;
// action position within a stage matters to the execution layer.
func (s *Stage) AddAction(a Action) {
	s.actions = append(s.actions, a)
}

// Actions returns the stage's actions in insertion order.
func (s *Stage) Actions() []Action {
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}
