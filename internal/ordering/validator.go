package ordering

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/vk/stackpipe/internal/plan"
)

// Result holds one validation pass over a finished pipeline. Warnings are
// advisory; Violations block the plan. Both are collected across the whole
// pipeline before being surfaced, so the caller sees every problem in one
// pass instead of fixing them one at a time.
type Result struct {
	Warnings   []string
	Violations []string
}

// Err returns the violations aggregated as a single fatal error, or nil when
// the pass found none. Warnings never contribute to the error.
func (r Result) Err() error {
	var result *multierror.Error
	for _, v := range r.Violations {
		result = multierror.Append(result, errors.New(v))
	}
	return result.ErrorOrNil()
}

// Validate walks the flattened, pipeline-ordered deploy actions and checks
// every dependency edge independently.
//
// A dependency missing from the pipeline entirely is a warning: the unit
// depends on something deployed outside this pipeline's control, which is
// allowed but worth flagging. A dependency that is present but scheduled too
// late is a violation. The check is strict — the dependency's execute phase
// must fully precede the dependent's prepare phase, because actions with
// equal order numbers may run concurrently.
func Validate(actions []*plan.DeployAction) Result {
	byUnit := make(map[string]*plan.DeployAction, len(actions))
	for _, a := range actions {
		if _, ok := byUnit[a.UnitID]; !ok {
			byUnit[a.UnitID] = a
		}
	}

	var res Result
	for _, a := range actions {
		for _, depID := range a.DependencyIDs {
			if depID == a.UnitID {
				res.Violations = append(res.Violations,
					fmt.Sprintf("unit '%s' depends on itself", a.UnitID))
				continue
			}
			dep, ok := byUnit[depID]
			if !ok {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("unit '%s' depends on '%s', but '%s' is not deployed by this pipeline", a.UnitID, depID, depID))
				continue
			}
			if dep.ExecuteOrder >= a.PrepareOrder {
				res.Violations = append(res.Violations,
					fmt.Sprintf("unit '%s' is scheduled before its dependency '%s' has finished (prepare=%d, dependency executes at %d)",
						a.UnitID, depID, a.PrepareOrder, dep.ExecuteOrder))
			}
		}
	}
	return res
}
