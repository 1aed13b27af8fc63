package plan

import (
	"fmt"
	"io"

	"github.com/gofrs/uuid"
)

// Plan is the frozen result of a planning session. It is handed to the
// execution layer as-is and must never be mutated.
type Plan struct {
	id       uuid.UUID
	name     string
	stages   []*Stage
	warnings []string
}

// ID returns the planning session ID.
func (p *Plan) ID() uuid.UUID { return p.id }

// Name returns the pipeline name.
func (p *Plan) Name() string { return p.name }

// Stages returns the plan's stages in execution order.
func (p *Plan) Stages() []*Stage {
	out := make([]*Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Warnings returns the advisory findings collected while planning.
func (p *Plan) Warnings() []string {
	out := make([]string, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// DeployActions returns every deploy action across all stages, flattened in
// pipeline order.
func (p *Plan) DeployActions() []*DeployAction {
	var out []*DeployAction
	for _, s := range p.stages {
		for _, a := range s.actions {
			if a.Kind() == KindDeploy {
				out = append(out, a.(*DeployAction))
			}
		}
	}
	return out
}

// Render writes a human-readable plan summary. Output is deterministic:
// identical definitions render identically.
func (p *Plan) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "pipeline %q (%d stages)\n", p.name, len(p.stages)); err != nil {
		return err
	}
	for _, s := range p.stages {
		if _, err := fmt.Fprintf(w, "stage %q\n", s.name); err != nil {
			return err
		}
		for _, a := range s.actions {
			var detail string
			switch a.Kind() {
			case KindDeploy:
				d := a.(*DeployAction)
				detail = fmt.Sprintf(" prepare=%d execute=%d", d.PrepareOrder, d.ExecuteOrder)
			case KindPublish:
				pa := a.(*PublishAction)
				detail = fmt.Sprintf(" %s destinations=%d", pa.AssetKind, len(pa.destinations))
			}
			if _, err := fmt.Fprintf(w, "  [%s] %s%s\n", a.Kind(), a.DisplayName(), detail); err != nil {
				return err
			}
		}
	}
	for _, warning := range p.warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
