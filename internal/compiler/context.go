package compiler

import (
	"fmt"
	"regexp"

	"github.com/typeops/fontbake/internal/graph"
	"github.com/typeops/fontbake/internal/ops"
)

// Context is the compile-time state shared by every chain: the graph
// under construction, the injected operation registry, and the arena
// counter used to synthesize deterministic intermediate names. One
// Context is constructed per compile run and discarded after emission.
type Context struct {
	Graph *graph.Graph
	Ops   *ops.Registry

	// VerboseNames appends a human-readable chain description to
	// intermediate artifact names.
	VerboseNames bool

	nextID int
}

// NewContext creates the state for one compile run.
func NewContext(registry *ops.Registry) *Context {
	return &Context{
		Graph: graph.New(),
		Ops:   registry,
	}
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// tempPath allocates a deterministic anonymous intermediate path. The
// monotonically increasing id keeps repeated compiles of the same recipe
// reproducible, unlike OS temp-file allocation.
func (c *Context) tempPath(debug string) string {
	id := c.nextID
	c.nextID++
	if c.VerboseNames && debug != "" {
		return fmt.Sprintf("__tmp_%d_%s", id, unsafeNameChars.ReplaceAllString(debug, "_"))
	}
	return fmt.Sprintf("__tmp_%d", id)
}

// stampPath allocates a deterministic stamp path for a postprocess step
// whose kind does not name its own stamp.
func (c *Context) stampPath(kind string) string {
	id := c.nextID
	c.nextID++
	return fmt.Sprintf("__stamp_%d.%sstamp", id, kind)
}
