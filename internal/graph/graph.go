package graph

import (
	"fmt"
	"sort"
)

// Graph is the shared artifact/operation DAG. It owns the artifact
// registry: Ensure guarantees a single Artifact instance per path for the
// whole compile. Compilation is single-threaded, so the graph carries no
// locking.
type Graph struct {
	// artifacts keys every bound artifact by its resolved path.
	artifacts map[string]*Artifact
	// operations holds all wired operation instances in insertion order.
	operations []*Operation
	// outgoing maps an artifact to the operations that read it.
	outgoing map[*Artifact][]*Operation
	// producers maps an artifact to the operations that write it. More
	// than one producer is an invariant violation surfaced by
	// AddOperation.
	producers map[*Artifact][]*Operation
	// temporaries records stamp and temp artifacts eligible for
	// post-build cleanup.
	temporaries []*Artifact
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		artifacts: make(map[string]*Artifact),
		outgoing:  make(map[*Artifact][]*Operation),
		producers: make(map[*Artifact][]*Operation),
	}
}

// Ensure returns the registered artifact for path, creating it with the
// given kind if absent. An existing artifact keeps its original kind and
// terminal flag.
func (g *Graph) Ensure(path string, kind ArtifactKind) *Artifact {
	if a, ok := g.artifacts[path]; ok {
		return a
	}
	a := &Artifact{Path: path, Kind: kind}
	g.artifacts[path] = a
	return a
}

// EnsureTerminal registers path as a recipe target's official output.
func (g *Graph) EnsureTerminal(path string) *Artifact {
	a := g.Ensure(path, BinaryArtifact)
	a.Terminal = true
	return a
}

// NewUnbound creates an artifact with no resolved path. It is not
// registered until Bind names it.
func (g *Graph) NewUnbound(kind ArtifactKind) *Artifact {
	return &Artifact{Kind: kind}
}

// Bind resolves an unbound artifact to path and registers it. Binding to
// a path another artifact already owns is an error: it would break the
// one-artifact-per-path invariant.
func (g *Graph) Bind(a *Artifact, path string) error {
	if a.Bound() {
		return fmt.Errorf("artifact %q is already bound", a.Path)
	}
	if existing, ok := g.artifacts[path]; ok && existing != a {
		return fmt.Errorf("path %q is already registered to another artifact", path)
	}
	a.Path = path
	g.artifacts[path] = a
	return nil
}

// Lookup returns the artifact registered for path, if any.
func (g *Graph) Lookup(path string) (*Artifact, bool) {
	a, ok := g.artifacts[path]
	return a, ok
}

// AddOperation wires a detached operation into the graph: its sources gain
// an outgoing edge, its targets gain a producer. A target that already has
// a producer, or a target sharing a path with one of the sources, is
// rejected.
func (g *Graph) AddOperation(op *Operation) error {
	for _, t := range op.Targets {
		for _, s := range op.Sources {
			if s.Bound() && t.Bound() && s.Path == t.Path {
				return fmt.Errorf("operation %s writes its own input %q", op.Kind, t.Path)
			}
		}
		if existing := g.producers[t]; len(existing) > 0 {
			return fmt.Errorf("artifact %q already has a producer (%s); %s would be a second one",
				t, existing[0].Kind, op.Kind)
		}
	}
	g.operations = append(g.operations, op)
	for _, s := range op.Sources {
		g.outgoing[s] = append(g.outgoing[s], op)
	}
	for _, t := range op.Targets {
		g.producers[t] = append(g.producers[t], op)
	}
	return nil
}

// Outgoing returns the operations reading from a, in insertion order.
func (g *Graph) Outgoing(a *Artifact) []*Operation {
	return g.outgoing[a]
}

// Producer returns the single operation producing a, along with how many
// producers are recorded. Count is 0 for source artifacts.
func (g *Graph) Producer(a *Artifact) (*Operation, int) {
	ops := g.producers[a]
	if len(ops) == 0 {
		return nil, 0
	}
	return ops[0], len(ops)
}

// Retarget redirects the producing operation of old so that it declares
// repl as its output instead. Used for mid-chain source switches, where
// the previous operation's logical output turns out to live at a
// different on-disk name. old must have exactly one producer.
func (g *Graph) Retarget(old, repl *Artifact) error {
	ops := g.producers[old]
	if len(ops) != 1 {
		return fmt.Errorf("artifact %q has %d producers, cannot redirect", old, len(ops))
	}
	if len(g.producers[repl]) > 0 {
		return fmt.Errorf("artifact %q already has a producer, redirecting %q onto it would add a second one",
			repl, old)
	}
	op := ops[0]
	for i, t := range op.Targets {
		if t == old {
			op.Targets[i] = repl
		}
	}
	delete(g.producers, old)
	g.producers[repl] = append(g.producers[repl], op)
	// The abandoned placeholder no longer names a real file. Unbinding it
	// also drops it from the cleanup list.
	if old.Bound() {
		delete(g.artifacts, old.Path)
		old.Path = ""
	}
	repl.Terminal = repl.Terminal || old.Terminal
	return nil
}

// MarkTemporary records an artifact for best-effort post-build cleanup.
func (g *Graph) MarkTemporary(a *Artifact) {
	g.temporaries = append(g.temporaries, a)
}

// Temporaries returns the recorded temporary paths, sorted.
func (g *Graph) Temporaries() []string {
	paths := make([]string, 0, len(g.temporaries))
	for _, a := range g.temporaries {
		if a.Bound() {
			paths = append(paths, a.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Operations returns every wired operation instance in insertion order.
func (g *Graph) Operations() []*Operation {
	return g.operations
}

// DefaultTargets returns the sorted default-target paths: terminal
// artifacts no real operation consumes. A postprocessed terminal artifact
// is represented by its chain's final stamp, so building the defaults
// also runs the side effects in declared order.
func (g *Graph) DefaultTargets() []string {
	// Stamps referenced as another stamp's implicit input are not the end
	// of their chain.
	chained := make(map[*Artifact]bool)
	for _, op := range g.operations {
		if !op.Postprocess {
			continue
		}
		for _, imp := range op.Implicit {
			chained[imp] = true
		}
	}

	var defaults []string
	for _, a := range g.artifacts {
		if !a.Terminal {
			continue
		}
		consumed := false
		var stamps []*Operation
		for _, op := range g.outgoing[a] {
			if op.Postprocess {
				stamps = append(stamps, op)
				continue
			}
			consumed = true
		}
		if !consumed && len(stamps) == 0 {
			defaults = append(defaults, a.Path)
		}
		// Final stamps always build, even when the font itself feeds
		// another chain.
		for _, op := range stamps {
			if stamp := op.FirstTarget(); stamp != nil && !chained[stamp] {
				defaults = append(defaults, stamp.Path)
			}
		}
	}
	sort.Strings(defaults)
	return defaults
}
