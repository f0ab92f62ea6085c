package ops

import (
	"fmt"
	"sort"

	"github.com/typeops/fontbake/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Operation is an external, pluggable unit of work identified by its kind
// name. The compiler treats implementations as black boxes: it asks them
// to validate a step's final config, to name their own outputs or stamps
// when they care, and to contribute build-statement variables. The rule
// template is declared once per kind by the emitter.
type Operation interface {
	// Kind is the name recipes use to refer to this operation.
	Kind() string
	// Description is emitted as a comment above the rule declaration.
	Description() string
	// Rule is the generic command template for this kind.
	Rule() string
	// Validate checks a fully-resolved step config. A nil error means the
	// operation can be emitted.
	Validate(cfg map[string]cty.Value) error
	// OutputName returns the output path this kind dictates for the given
	// input, or "" when the compiler should allocate one.
	OutputName(source *graph.Artifact, cfg map[string]cty.Value) string
	// StampName returns the stamp path when this kind is used as a
	// postprocess step, or "" when the compiler should allocate one.
	StampName(source *graph.Artifact, cfg map[string]cty.Value) string
	// Variables returns the per-build-statement variable bindings for a
	// wired operation instance.
	Variables(op *graph.Operation) map[string]string
}

// ValidationError reports a config key an operation requires but the
// recipe did not supply.
type ValidationError struct {
	OpKind string
	Key    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("operation %q requires config key %q", e.OpKind, e.Key)
}

// base provides the common capability behavior: required-key validation
// and config-to-variable passthrough. Concrete kinds embed it and
// override what they need.
type base struct {
	kind     string
	desc     string
	rule     string
	required []string
}

func (b base) Kind() string        { return b.kind }
func (b base) Description() string { return b.desc }
func (b base) Rule() string        { return b.rule }

func (b base) Validate(cfg map[string]cty.Value) error {
	for _, key := range b.required {
		if _, ok := cfg[key]; !ok {
			return &ValidationError{OpKind: b.kind, Key: key}
		}
	}
	return nil
}

func (b base) OutputName(*graph.Artifact, map[string]cty.Value) string { return "" }
func (b base) StampName(*graph.Artifact, map[string]cty.Value) string  { return "" }

func (b base) Variables(op *graph.Operation) map[string]string {
	return ConfigVariables(op.Config)
}

// ConfigVariables converts a step config into build-statement variables.
// The needs key never reaches the command line; it only shapes the graph.
func ConfigVariables(cfg map[string]cty.Value) map[string]string {
	vars := make(map[string]string, len(cfg))
	for k, v := range cfg {
		if k == "needs" {
			continue
		}
		vars[k] = ValueString(v)
	}
	return vars
}

// ValueString renders a cty value the way it should appear in a command
// line: strings verbatim, everything else in cty's standard notation.
func ValueString(v cty.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	}
	return v.GoString()
}

// SortedKeys returns config keys in lexical order, for deterministic
// emission.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
