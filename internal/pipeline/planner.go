package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/stackpipe/internal/assets"
	"github.com/vk/stackpipe/internal/config"
	"github.com/vk/stackpipe/internal/ctxlog"
	"github.com/vk/stackpipe/internal/dag"
	"github.com/vk/stackpipe/internal/ordering"
	"github.com/vk/stackpipe/internal/outputs"
	"github.com/vk/stackpipe/internal/plan"
)

// Options configures a planning session.
type Options struct {
	// Root is the directory asset sources are resolved against. Defaults to
	// the current directory.
	Root string
	// Provisioner supplies the shared per-kind publishing role. Defaults to
	// the in-memory provisioner.
	Provisioner assets.RoleProvisioner
	// Draft optionally hands in a pre-populated pipeline whose existing
	// stages stand in for the source and build steps.
	Draft *plan.Draft
}

// Planner builds one frozen plan from one definition model. A Planner is
// single-use and single-threaded.
type Planner struct {
	model *config.Model
	opts  Options
}

// NewPlanner validates the model and the structural preconditions, failing
// fast with a ConfigError before any stage is created.
func NewPlanner(model *config.Model, opts Options) (*Planner, error) {
	if err := config.Validate(model); err != nil {
		return nil, plan.NewConfigError("invalid pipeline definition: %s", err)
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Provisioner == nil {
		opts.Provisioner = assets.NewInMemoryProvisioner()
	}
	if err := checkPreconditions(model.Pipeline, opts); err != nil {
		return nil, err
	}
	return &Planner{model: model, opts: opts}, nil
}

// checkPreconditions enforces the entry invariants: a source step requires a
// build step and vice versa, unless a caller-supplied pre-populated pipeline
// already satisfies the minimum stage count; and a pre-populated pipeline
// must not conflict with the definition's own name.
func checkPreconditions(p *config.Pipeline, opts Options) error {
	if opts.Draft != nil && p.Name != "" && opts.Draft.Name() != p.Name {
		return plan.NewConfigError("pre-populated pipeline is named '%s' but the definition declares '%s'", opts.Draft.Name(), p.Name)
	}

	hasSource := p.Source != nil
	hasBuild := p.Build != nil
	switch {
	case hasSource && !hasBuild:
		return plan.NewConfigError("pipeline '%s' declares a source step but no build step", p.Name)
	case hasBuild && !hasSource:
		return plan.NewConfigError("pipeline '%s' declares a build step but no source step", p.Name)
	case !hasSource && !hasBuild:
		if opts.Draft == nil || opts.Draft.StageCount() < 2 {
			return plan.NewConfigError("pipeline '%s' declares neither source nor build steps and no pre-populated pipeline with at least two stages was supplied", p.Name)
		}
	}
	return nil
}

// BuildPlan expands every stage in declaration order, runs the ordering
// validator, and freezes the plan. Ordering violations across the whole
// pipeline are aggregated into one error; warnings are attached to the plan.
func (pl *Planner) BuildPlan(ctx context.Context) (*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	p := pl.model.Pipeline

	draft := pl.opts.Draft
	if draft == nil {
		draft = plan.NewDraft(p.Name)
		draft.AddStage("Source").AddAction(&plan.GenericAction{Name: "Checkout"})
		draft.AddStage("Build").AddAction(&plan.GenericAction{Name: "Build"})
	} else {
		// Stage count stands in for "has source and build"; nothing checks
		// what those stages actually contain.
		draft.AddWarning(fmt.Sprintf("pre-populated pipeline with %d stages assumed to provide source and build steps", draft.StageCount()))
	}
	logger.Debug("Planning session started.", "pipeline", draft.Name(), "session_id", draft.ID())

	// The assets stage is created speculatively; publish requests may
	// arrive during any later unit expansion. Freeze elides it if it stays
	// empty.
	assetsStage := draft.AddStage("Assets")
	coordinator := assets.NewCoordinator(pl.opts.Root, assetsStage, pl.opts.Provisioner)
	binder := outputs.NewBinder()

	assetsByID := make(map[string]*config.AssetDef, len(p.Assets))
	for _, a := range p.Assets {
		assetsByID[a.ID] = a
	}

	nextOrder := 1
	for _, stageDef := range p.Stages {
		stage := draft.AddStage(stageDef.Name)
		waves, err := stageWaves(stageDef)
		if err != nil {
			return nil, plan.NewConfigError("stage '%s': %s", stageDef.Name, err)
		}
		byID := make(map[string]*config.Unit, len(stageDef.Units))
		for _, u := range stageDef.Units {
			byID[u.ID] = u
		}

		for _, wave := range waves {
			prepare, execute := nextOrder, nextOrder+1
			for _, unitID := range wave {
				u := byID[unitID]
				if err := pl.expandUnit(ctx, u, stage, coordinator, binder, assetsByID, prepare, execute); err != nil {
					return nil, err
				}
			}
			nextOrder += 2
		}
		logger.Debug("Stage expanded.", "stage", stageDef.Name, "units", len(stageDef.Units), "waves", len(waves))
	}

	res := ordering.Validate(draft.DeployActions())
	for _, w := range res.Warnings {
		logger.Warn(w)
		draft.AddWarning(w)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("pipeline ordering validation failed: %w", err)
	}

	final := draft.Freeze()
	logger.Info("Plan finalized.",
		"pipeline", final.Name(),
		"stages", len(final.Stages()),
		"publishing_actions", coordinator.PublisherCount(),
		"warnings", len(final.Warnings()),
	)
	return final, nil
}

// expandUnit schedules one unit: its asset publish requests, its output
// handle bindings, and finally its deploy action.
func (pl *Planner) expandUnit(
	ctx context.Context,
	u *config.Unit,
	stage *plan.Stage,
	coordinator *assets.Coordinator,
	binder *outputs.Binder,
	assetsByID map[string]*config.AssetDef,
	prepare, execute int,
) error {
	logger := ctxlog.FromContext(ctx)

	for _, assetID := range u.Assets {
		def := assetsByID[assetID]
		kind, err := plan.ParseAssetKind(def.Kind)
		if err != nil {
			return plan.NewConfigError("asset '%s': %s", assetID, err)
		}
		for _, dest := range def.Destinations {
			err := coordinator.RequestPublish(ctx, assets.PublishRequest{
				AssetID:       def.ID,
				Kind:          kind,
				SourcePath:    def.Source,
				DestinationID: dest.ID,
				Params:        dest.Params,
			})
			if err != nil {
				return err
			}
		}
	}

	for _, producer := range u.Consumes {
		h := binder.HandleFor(producer)
		logger.Debug("Bound output handle.", "unit", u.ID, "producer", producer, "token", h.Token)
	}

	stage.AddAction(plan.NewDeployAction(u.ID, u.DependsOn, prepare, execute))
	return nil
}

// stageWaves layers a stage's units by their intra-stage dependencies.
// Dependencies on units outside the stage don't constrain placement here;
// earlier stages already ran, and anything else is the ordering validator's
// business.
func stageWaves(stageDef *config.StageDef) ([][]string, error) {
	g := dag.New()
	for _, u := range stageDef.Units {
		g.AddNode(u.ID)
	}
	for _, u := range stageDef.Units {
		for _, dep := range u.DependsOn {
			if dep == u.ID {
				// Impossible by construction upstream; the ordering
				// validator reports it as a violation.
				continue
			}
			if !g.Has(dep) {
				continue
			}
			if err := g.AddEdge(dep, u.ID); err != nil {
				return nil, err
			}
		}
	}
	return g.Waves()
}
