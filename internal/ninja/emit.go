package ninja

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/typeops/fontbake/internal/compiler"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/typeops/fontbake/internal/graph"
	"github.com/typeops/fontbake/internal/ops"
)

// Result is what emission hands back to the caller besides the rule text:
// the default-target list for the executor and the temporaries eligible
// for post-build cleanup.
type Result struct {
	DefaultTargets []string
	Temporaries    []string
}

// Emit walks every operation instance in the finished graph, validates it
// against its capability, and writes one rule declaration per kind plus
// one build statement per instance. Rules and build statements are
// ordered by kind and primary output respectively, so the emitted file is
// identical across runs regardless of map iteration order upstream.
func Emit(ctx context.Context, g *graph.Graph, registry *ops.Registry, w io.Writer) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	operations := g.Operations()
	logger.Debug("Emit: writing rule set.", "operation_count", len(operations))

	// kinds collects each capability the first time its kind is seen;
	// builds orders operation instances by primary output path. Both are
	// treemaps so iteration is sorted.
	kinds := treemap.NewWithStringComparator()
	builds := treemap.NewWithStringComparator()
	for _, op := range operations {
		capability, ok := registry.Get(op.Kind)
		if !ok {
			return nil, &compiler.Error{
				Target: op.FirstTarget().String(),
				Step:   -1,
				Kind:   compiler.OperationValidationFailed,
				Detail: "unknown operation kind " + op.Kind,
			}
		}
		if err := capability.Validate(op.Config); err != nil {
			return nil, &compiler.Error{
				Target: op.FirstTarget().String(),
				Step:   -1,
				Kind:   compiler.OperationValidationFailed,
				Cause:  err,
			}
		}
		kinds.Put(op.Kind, capability)
		builds.Put(op.FirstTarget().Path, op)
	}

	writer := NewWriter(w)
	writer.Comment("Rules")
	writer.Newline()
	kinds.Each(func(key, value any) {
		capability := value.(ops.Operation)
		writer.Comment(capability.Kind() + ": " + capability.Description())
		// Every rule carries a trailing $stamp slot; postprocess build
		// statements fill it with a touch command, everything else leaves
		// it empty.
		writer.Rule(capability.Kind(), capability.Rule()+" $stamp")
		writer.Newline()
	})

	builds.Each(func(key, value any) {
		op := value.(*graph.Operation)
		capability, _ := registry.Get(op.Kind)
		writeBuild(writer, op, capability)
	})

	defaults := g.DefaultTargets()
	if len(defaults) == 0 {
		return nil, &compiler.Error{
			Step:   -1,
			Kind:   compiler.NoDefaultTargets,
			Detail: "compiled graph has no terminal artifacts to build",
		}
	}
	writer.Newline()
	writer.Default(defaults)

	logger.Debug("Emit: rule set written.", "default_targets", len(defaults))
	return &Result{DefaultTargets: defaults, Temporaries: g.Temporaries()}, nil
}

// writeBuild emits one build statement for an operation instance with its
// full accumulated output set.
func writeBuild(writer *Writer, op *graph.Operation, capability ops.Operation) {
	outputs := artifactPaths(op.Targets)
	inputs := artifactPaths(op.Sources)
	inputs = append(inputs, artifactPaths(op.ExtraNeeds)...)

	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		seen[in] = struct{}{}
	}
	var implicit []string
	for _, a := range op.Implicit {
		if _, dup := seen[a.Path]; !dup {
			implicit = append(implicit, a.Path)
		}
	}
	sort.Strings(implicit)

	vars := capability.Variables(op)
	if op.Postprocess {
		writer.Comment("Postprocessing " + strings.Join(inputs, ", ") + " with " + op.Kind)
		vars["stamp"] = "&& touch " + op.FirstTarget().Path
	} else {
		writer.Comment("Generating " + strings.Join(outputs, ", "))
	}

	ordered := make([][2]string, 0, len(vars))
	for _, k := range ops.SortedKeys(vars) {
		ordered = append(ordered, [2]string{k, vars[k]})
	}
	writer.Build(outputs, op.Kind, inputs, implicit, ordered)
	writer.Newline()
}

func artifactPaths(artifacts []*graph.Artifact) []string {
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		paths = append(paths, a.Path)
	}
	sort.Strings(paths)
	return paths
}
