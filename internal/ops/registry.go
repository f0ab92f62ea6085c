package ops

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry maps kind names to operation capabilities for a single compile
// run. It is constructed explicitly and injected into the compiler.
type Registry struct {
	kinds map[string]Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Operation)}
}

// Register adds a capability under its kind name. Registering the same
// kind twice is a programming error.
func (r *Registry) Register(op Operation) {
	if _, exists := r.kinds[op.Kind()]; exists {
		panic(fmt.Sprintf("operation with kind %q already registered", op.Kind()))
	}
	slog.Debug("Registering operation capability.", "kind", op.Kind())
	r.kinds[op.Kind()] = op
}

// Get looks up a capability by kind.
func (r *Registry) Get(kind string) (Operation, bool) {
	op, ok := r.kinds[kind]
	return op, ok
}

// Kinds returns all registered kind names in lexical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Builtin returns a registry populated with every built-in operation.
func Builtin() *Registry {
	r := NewRegistry()
	for _, op := range []Operation{
		buildVariable{},
		buildTTF{},
		buildOTF{},
		instantiateUFO{},
		glyphsToDesignspace{},
		autohint{},
		autohintOTF{},
		fix{},
		rename{},
		remapLayout{},
		buildStat{},
		compress{},
		copyFile{},
		execCommand{},
		buildVTT{},
	} {
		r.Register(op)
	}
	return r
}
