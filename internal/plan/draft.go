package plan

import "github.com/gofrs/uuid"

// Draft is the mutable plan under construction. Components append stages and
// actions while the pipeline is expanded; Freeze turns the result into an
// immutable Plan. A Draft belongs to a single planning session and is not
// safe for concurrent use.
type Draft struct {
	id       uuid.UUID
	name     string
	stages   []*Stage
	warnings []string
}

// NewDraft creates an empty draft for the named pipeline. Every draft gets a
// fresh session ID so plans and their log lines can be correlated.
func NewDraft(name string) *Draft {
	return &Draft{
		id:   uuid.Must(uuid.NewV4()),
		name: name,
	}
}

// ID returns the planning session ID.
func (d *Draft) ID() uuid.UUID { return d.id }

// Name returns the pipeline name.
func (d *Draft) Name() string { return d.name }

// AddStage appends a new empty stage and returns it. Stages run in the order
// they were added.
func (d *Draft) AddStage(name string) *Stage {
	s := &Stage{name: name}
	d.stages = append(d.stages, s)
	return s
}

// StageCount returns the number of stages added so far, including stages
// that are still empty.
func (d *Draft) StageCount() int { return len(d.stages) }

// AddWarning records an advisory finding. Warnings never block the plan.
func (d *Draft) AddWarning(msg string) {
	d.warnings = append(d.warnings, msg)
}

// DeployActions returns every deploy action across all stages, flattened in
// pipeline order.
func (d *Draft) DeployActions() []*DeployAction {
	var out []*DeployAction
	for _, s := range d.stages {
		for _, a := range s.actions {
			if a.Kind() == KindDeploy {
				out = append(out, a.(*DeployAction))
			}
		}
	}
	return out
}

// Freeze prunes stages that never received an action and returns the
// immutable Plan. Empty stages are invalid in the target pipeline model, and
// a speculatively-created stage (such as the asset publishing stage) must
// vanish when nothing materialized for it. The draft must not be used after
// Freeze.
func (d *Draft) Freeze() *Plan {
	stages := make([]*Stage, 0, len(d.stages))
	for _, s := range d.stages {
		if len(s.actions) == 0 {
			continue
		}
		frozen := &Stage{name: s.name, actions: make([]Action, len(s.actions))}
		copy(frozen.actions, s.actions)
		stages = append(stages, frozen)
	}
	warnings := make([]string, len(d.warnings))
	copy(warnings, d.warnings)
	return &Plan{
		id:       d.id,
		name:     d.name,
		stages:   stages,
		warnings: warnings,
	}
}
