// Package testutil provides small helpers shared by the compiler and
// emitter tests: a configurable fake operation capability and terse step
// constructors.
package testutil

import (
	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/graph"
	"github.com/typeops/fontbake/internal/ops"
	"github.com/zclconf/go-cty/cty"
)

// FakeOp is a minimal operation capability for tests. The zero value of
// everything but Name is a permissive operation with a generic rule.
type FakeOp struct {
	Name string
	// Required lists config keys Validate insists on.
	Required []string
	// OutName, when set, makes the kind self-naming.
	OutName string
	// Stamp, when set, names the kind's postprocess stamp.
	Stamp string
}

func (f FakeOp) Kind() string        { return f.Name }
func (f FakeOp) Description() string { return f.Name + " (test)" }
func (f FakeOp) Rule() string        { return f.Name + " $in > $out" }

func (f FakeOp) Validate(cfg map[string]cty.Value) error {
	for _, key := range f.Required {
		if _, ok := cfg[key]; !ok {
			return &ops.ValidationError{OpKind: f.Name, Key: key}
		}
	}
	return nil
}

func (f FakeOp) OutputName(*graph.Artifact, map[string]cty.Value) string { return f.OutName }
func (f FakeOp) StampName(*graph.Artifact, map[string]cty.Value) string  { return f.Stamp }

func (f FakeOp) Variables(op *graph.Operation) map[string]string {
	return ops.ConfigVariables(op.Config)
}

// Registry builds a registry of permissive fake kinds plus the copy kind
// the compiler inserts for shared results.
func Registry(kinds ...string) *ops.Registry {
	r := ops.NewRegistry()
	r.Register(FakeOp{Name: ops.CopyKind})
	for _, kind := range kinds {
		r.Register(FakeOp{Name: kind})
	}
	return r
}

// Source builds a source step.
func Source(path string) config.Step {
	return config.Step{Type: config.SourceStep, Source: path}
}

// Op builds an operation step. Args come as alternating key/value string
// pairs.
func Op(kind string, kv ...string) config.Step {
	return config.Step{Type: config.OperationStep, Kind: kind, Args: args(kv)}
}

// Post builds a postprocess step.
func Post(kind string, kv ...string) config.Step {
	return config.Step{Type: config.PostprocessStep, Kind: kind, Args: args(kv)}
}

func args(kv []string) map[string]cty.Value {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]cty.Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = cty.StringVal(kv[i+1])
	}
	return m
}
