package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/stackpipe/internal/config"
	"github.com/vk/stackpipe/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp is the constructor for the main application. It loads the pipeline
// definition eagerly so startup fails before any planning begins. A failure
// to load is a fatal startup error and panics; main recovers it into a clean
// exit message.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.DefinitionPath)
	if err != nil {
		panic(fmt.Errorf("failed to load pipeline definition: %w", err))
	}
	logger.Debug("Pipeline definition loaded into unified model.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		model:  model,
	}
}

// Model returns the loaded definition model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
