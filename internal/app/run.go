package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/typeops/fontbake/internal/compiler"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/typeops/fontbake/internal/ninja"
	"github.com/typeops/fontbake/internal/provider"
)

// Run executes the main application logic: expand the recipe, compile it
// into the artifact graph, emit the ninja file, and run ninja unless asked
// not to.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	recipe, err := provider.Expand(ctx, a.model)
	if err != nil {
		return fmt.Errorf("failed to expand recipe: %w", err)
	}
	a.logger.Debug("Recipe expanded.", "targets", len(recipe))

	if a.config.Generate {
		return writeRecipe(a.outW, recipe)
	}

	cctx := compiler.NewContext(a.registry)
	cctx.VerboseNames = a.config.VerboseNames
	if err := compiler.Compile(ctx, cctx, recipe); err != nil {
		return fmt.Errorf("failed to compile recipe: %w", err)
	}
	a.logger.Debug("Recipe compiled.", "operations", len(cctx.Graph.Operations()))

	out, err := os.Create(a.config.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", a.config.Output, err)
	}
	result, err := ninja.Emit(ctx, cctx.Graph, a.registry, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to emit %s: %w", a.config.Output, err)
	}
	a.logger.Info("Ninja file written.",
		"path", a.config.Output, "default_targets", len(result.DefaultTargets))

	if a.config.NoNinja {
		a.logger.Debug("Skipping ninja execution.")
		return nil
	}

	cmd := exec.CommandContext(ctx, "ninja", "-f", a.config.Output)
	cmd.Stdout = a.outW
	cmd.Stderr = a.outW
	a.logger.Info("🚀 Starting ninja build...")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ninja build failed: %w", err)
	}
	a.logger.Info("🏁 Build finished.", "targets", result.DefaultTargets)

	if a.config.Clean {
		a.cleanup(result.Temporaries)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// cleanup removes intermediate artifacts after a successful build. Removal
// is best effort; a missing file is not an error.
func (a *App) cleanup(temporaries []string) {
	for _, path := range temporaries {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("Could not remove intermediate file.", "path", path, "error", err)
			continue
		}
		a.logger.Debug("Removed intermediate file.", "path", path)
	}
}
