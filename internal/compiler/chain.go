package compiler

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/typeops/fontbake/internal/graph"
	"github.com/typeops/fontbake/internal/ops"
)

// compileChain walks one target's ordered step list and inserts the
// resulting edges into the shared graph. State carried across steps is
// the chain's current artifact, the last real (non-postprocess) operation
// compiled or reused, and the last postprocess stamp.
func compileChain(ctx context.Context, c *Context, targetPath string, steps []config.Step) error {
	logger := ctxlog.FromContext(ctx).With("target", targetPath)
	logger.Debug("Compiling chain.", "step_count", len(steps))

	if len(steps) == 0 {
		return newError(targetPath, -1, MissingInitialSource, "target has no steps")
	}

	// finalIdx marks the chain's structurally-final step: the last step
	// that is not a postprocess. This positional flag, not object
	// identity, decides which operation output gets the official name.
	finalIdx := -1
	for i, s := range steps {
		if s.Type != config.PostprocessStep {
			finalIdx = i
		}
	}

	var (
		current   *graph.Artifact
		lastReal  *graph.Operation
		lastStamp *graph.Artifact
		desc      string
	)

	for i, step := range steps {
		switch step.Type {
		case config.SourceStep:
			next, err := applySource(c, current, step.Source)
			if err != nil {
				return &Error{Target: targetPath, Step: i, Kind: AmbiguousProducer, Cause: err}
			}
			current = next
			if desc == "" {
				desc = stem(step.Source)
			}

		case config.OperationStep:
			if current == nil {
				return newError(targetPath, i, DanglingOperation,
					"operation "+step.Kind+" has no preceding source")
			}
			capability, ok := c.Ops.Get(step.Kind)
			if !ok {
				return newError(targetPath, i, OperationValidationFailed,
					"unknown operation kind "+step.Kind)
			}
			desc += "_" + step.Kind

			isFinal := i == finalIdx
			next, op, err := applyOperation(ctx, c, current, capability, step, targetPath, isFinal, desc)
			if err != nil {
				if cerr, isCompile := err.(*Error); isCompile {
					cerr.Target = targetPath
					cerr.Step = i
					return cerr
				}
				return &Error{Target: targetPath, Step: i, Kind: AmbiguousProducer, Cause: err}
			}
			current = next
			lastReal = op

		case config.PostprocessStep:
			if lastReal == nil {
				return newError(targetPath, i, EmptyChain,
					"postprocess "+step.Kind+" has no real operation to act on")
			}
			capability, ok := c.Ops.Get(step.Kind)
			if !ok {
				return newError(targetPath, i, OperationValidationFailed,
					"unknown postprocess kind "+step.Kind)
			}
			stamp, err := applyPostprocess(c, lastReal, lastStamp, capability, step)
			if err != nil {
				return &Error{Target: targetPath, Step: i, Kind: AmbiguousProducer, Cause: err}
			}
			lastStamp = stamp
		}
	}

	if lastReal == nil {
		return newError(targetPath, -1, EmptyChain, "target has no operations")
	}
	logger.Debug("Chain compiled.", "result", current.String())
	return nil
}

// applySource threads a source declaration through the chain. Four cases:
// anchor a fresh chain, bind a placeholder output to its real name, a
// repeated identical declaration (no-op), or a mid-chain switch that
// redirects the previous operation's output to a different on-disk name.
func applySource(c *Context, current *graph.Artifact, path string) (*graph.Artifact, error) {
	g := c.Graph
	switch {
	case current == nil:
		return g.Ensure(path, graph.SourceArtifact), nil

	case !current.Bound():
		if existing, ok := g.Lookup(path); ok {
			// The placeholder's real name is an artifact we already know
			// about; fold the producer onto it.
			if err := g.Retarget(current, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		if err := g.Bind(current, path); err != nil {
			return nil, err
		}
		return current, nil

	case current.Path == path:
		// Redeclaring the chain's current file is harmless.
		return current, nil

	default:
		repl := g.Ensure(path, graph.IntermediateArtifact)
		if err := g.Retarget(current, repl); err != nil {
			return nil, err
		}
		return repl, nil
	}
}

// applyOperation compiles one operation step: reuse a mergeable edge when
// one leaves the current artifact, insert a copy edge when the shared
// result needs this target's official name, or create a brand-new
// operation instance and output artifact.
func applyOperation(ctx context.Context, c *Context, current *graph.Artifact, capability ops.Operation, step config.Step, targetPath string, isFinal bool, desc string) (*graph.Artifact, *graph.Operation, error) {
	logger := ctxlog.FromContext(ctx)
	g := c.Graph

	for _, existing := range g.Outgoing(current) {
		if !existing.Mergeable(step.Kind, step.Args) {
			continue
		}
		result := existing.FirstTarget()
		if !isFinal || (result.Bound() && result.Path == targetPath) {
			logger.Debug("Reusing shared operation.", "kind", step.Kind, "result", result.String())
			return result, existing, nil
		}
		// The computation is shared but this target needs its own output
		// name: copy the shared result.
		official := g.EnsureTerminal(targetPath)
		copyOp := graph.NewOperation(ops.CopyKind, nil, false)
		copyOp.AddSource(result)
		copyOp.AddTarget(official)
		if err := g.AddOperation(copyOp); err != nil {
			return nil, nil, err
		}
		logger.Debug("Inserted copy edge for shared result.", "from", result.String(), "to", targetPath)
		return official, copyOp, nil
	}

	op := graph.NewOperation(step.Kind, step.Args, false)
	for _, need := range step.Needs {
		op.ExtraNeeds = append(op.ExtraNeeds, g.Ensure(need, graph.SourceArtifact))
	}

	var target *graph.Artifact
	switch {
	case isFinal:
		target = g.EnsureTerminal(targetPath)
	default:
		if name := capability.OutputName(current, step.Args); name != "" {
			target = g.Ensure(name, graph.IntermediateArtifact)
		} else {
			target = g.Ensure(c.tempPath(desc), graph.IntermediateArtifact)
			g.MarkTemporary(target)
		}
	}

	if target.Path == current.Path {
		return nil, nil, newError("", -1, CyclicEdge,
			"operation "+step.Kind+" would write its own input "+current.Path)
	}

	op.AddSource(current)
	op.AddTarget(target)
	if err := g.AddOperation(op); err != nil {
		return nil, nil, err
	}
	logger.Debug("Added operation.", "kind", step.Kind, "source", current.String(), "target", target.String())
	return target, op, nil
}

// applyPostprocess adds a side-effect operation. Its inputs are the
// outputs of the chain's last real operation; the previous stamp of the
// same chain rides along as an implicit input so stamps execute strictly
// in declared order. The chain's current artifact is left untouched.
func applyPostprocess(c *Context, lastReal *graph.Operation, lastStamp *graph.Artifact, capability ops.Operation, step config.Step) (*graph.Artifact, error) {
	g := c.Graph
	op := graph.NewOperation(step.Kind, step.Args, true)
	for _, out := range lastReal.Targets {
		op.AddSource(out)
	}
	if lastStamp != nil {
		op.Implicit = append(op.Implicit, lastStamp)
	}
	for _, need := range step.Needs {
		op.ExtraNeeds = append(op.ExtraNeeds, g.Ensure(need, graph.SourceArtifact))
	}

	stampPath := capability.StampName(op.FirstSource(), step.Args)
	if stampPath == "" {
		stampPath = c.stampPath(step.Kind)
	}
	stamp := g.Ensure(stampPath, graph.IntermediateArtifact)
	g.MarkTemporary(stamp)
	op.AddTarget(stamp)
	if err := g.AddOperation(op); err != nil {
		return nil, err
	}
	return stamp, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
