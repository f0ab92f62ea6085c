package graph

import (
	"github.com/zclconf/go-cty/cty"
)

// Operation is one edge label in the graph: a typed, configured unit of
// transformation. A single instance may accumulate several output
// artifacts, so the rule emitter groups by instance rather than by
// (source, target) pair.
type Operation struct {
	Kind string
	// Config holds the operation's parameters. Equality is value-based
	// and order-irrelevant; see ConfigEqual.
	Config map[string]cty.Value
	// Postprocess marks a side-effect-only operation whose sole output is
	// a stamp file.
	Postprocess bool

	// Sources are the primary input artifacts, in the order they were
	// attached.
	Sources []*Artifact
	// Targets are the output artifacts, in the order they were attached.
	// Targets[0] is the primary result the chain advances to.
	Targets []*Artifact
	// Implicit are extra inputs that must exist before the operation runs
	// but are not primary data sources. Used to serialize postprocess
	// stamps.
	Implicit []*Artifact
	// ExtraNeeds are additional dependencies declared by the recipe
	// author via a step's needs list.
	ExtraNeeds []*Artifact
}

// NewOperation creates a detached operation instance. It carries no edges
// until the graph's AddOperation wires it in.
func NewOperation(kind string, cfg map[string]cty.Value, postprocess bool) *Operation {
	return &Operation{Kind: kind, Config: cfg, Postprocess: postprocess}
}

// AddSource attaches an input artifact, ignoring duplicates.
func (o *Operation) AddSource(a *Artifact) {
	for _, s := range o.Sources {
		if s == a {
			return
		}
	}
	o.Sources = append(o.Sources, a)
}

// AddTarget attaches an output artifact, ignoring duplicates.
func (o *Operation) AddTarget(a *Artifact) {
	for _, t := range o.Targets {
		if t == a {
			return
		}
	}
	o.Targets = append(o.Targets, a)
}

// FirstSource returns the primary input artifact, or nil.
func (o *Operation) FirstSource() *Artifact {
	if len(o.Sources) == 0 {
		return nil
	}
	return o.Sources[0]
}

// FirstTarget returns the primary result artifact, or nil.
func (o *Operation) FirstTarget() *Artifact {
	if len(o.Targets) == 0 {
		return nil
	}
	return o.Targets[0]
}

// ConfigEqual reports whether cfg describes the same computation as this
// operation's config: the same keys with RawEquals-equal values. Key
// order never matters. Nil and empty maps are equal.
func (o *Operation) ConfigEqual(cfg map[string]cty.Value) bool {
	if len(o.Config) != len(cfg) {
		return false
	}
	for k, v := range o.Config {
		other, ok := cfg[k]
		if !ok || !v.RawEquals(other) {
			return false
		}
	}
	return true
}

// Mergeable reports whether an operation step with the given kind and
// config is computationally identical to this instance, and so may be
// shared by another chain reading from the same upstream artifact.
func (o *Operation) Mergeable(kind string, cfg map[string]cty.Value) bool {
	return !o.Postprocess && o.Kind == kind && o.ConfigEqual(cfg)
}
