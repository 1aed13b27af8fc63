package app

import (
	"context"
	"fmt"

	"github.com/vk/stackpipe/internal/ctxlog"
	"github.com/vk/stackpipe/internal/pipeline"
)

// Run builds and validates the deployment plan and renders it. Any fatal
// finding aborts the run; warnings are logged and attached to the plan.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	planner, err := pipeline.NewPlanner(a.model, pipeline.Options{Root: a.config.Root})
	if err != nil {
		return err
	}

	p, err := planner.BuildPlan(ctx)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if err := p.Render(a.outW); err != nil {
		return fmt.Errorf("rendering plan: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
