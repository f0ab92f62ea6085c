package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/typeops/fontbake/internal/ops"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *ops.Registry
	config   *Config
	model    *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and operation
// registry, with the recipe already loaded into the unified model.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, registry *ops.Registry) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.RecipePath)
	if err != nil {
		// A failure to load the recipe is a fatal startup error.
		panic(fmt.Errorf("failed to load recipe: %w", err))
	}
	logger.Debug("Recipe loaded and translated into unified model.",
		"explicit_targets", len(model.Recipe), "has_project", model.Project != nil)

	if registry == nil {
		registry = ops.Builtin()
	}
	logger.Debug("Operation registry ready.", "kinds", registry.Kinds())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: registry,
		config:   appConfig,
		model:    model,
	}
}

// Registry returns the application's operation registry. This is primarily
// for testing.
func (a *App) Registry() *ops.Registry {
	return a.registry
}

// Model returns the loaded configuration model. This is primarily for
// testing.
func (a *App) Model() *config.Model {
	return a.model
}
