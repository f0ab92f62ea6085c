package compiler

import (
	"context"
	"sort"

	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ctxlog"
)

// Compile builds the shared graph for every target in the recipe. Targets
// are processed in sorted order so diagnostics are stable, although the
// finished graph's shape does not depend on the order. The first invariant
// violation aborts the whole compile.
func Compile(ctx context.Context, c *Context, recipe config.Recipe) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compile: starting graph construction.", "target_count", len(recipe))

	targets := recipe.Targets()
	sort.Strings(targets)

	// First pass: register every target name so chains that consume
	// another target's output resolve to the same artifact instance.
	for _, target := range targets {
		c.Graph.EnsureTerminal(target)
	}
	logger.Debug("Compile: target registration complete.")

	// Second pass: compile each chain into the shared graph.
	for _, target := range targets {
		if err := compileChain(ctx, c, target, recipe[target]); err != nil {
			return err
		}
	}
	logger.Debug("Compile: graph construction successful.",
		"operation_count", len(c.Graph.Operations()))
	return nil
}
