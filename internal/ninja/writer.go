package ninja

import (
	"fmt"
	"io"
	"strings"
)

// Writer emits ninja syntax. It mirrors the small subset of the format
// the builder needs: comments, rule declarations, build statements with
// implicit inputs and scoped variables, and a default statement.
type Writer struct {
	w io.Writer
}

// NewWriter wraps an io.Writer for ninja output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Comment writes a single comment line.
func (n *Writer) Comment(text string) {
	fmt.Fprintf(n.w, "# %s\n", text)
}

// Newline writes a blank separator line.
func (n *Writer) Newline() {
	fmt.Fprintln(n.w)
}

// Rule declares a named rule with its command template.
func (n *Writer) Rule(name, command string) {
	fmt.Fprintf(n.w, "rule %s\n  command = %s\n", name, command)
}

// Build writes one build statement. Variables are emitted in the order
// given; callers are responsible for passing a deterministic order.
func (n *Writer) Build(outputs []string, rule string, inputs, implicit []string, vars [][2]string) {
	fmt.Fprintf(n.w, "build %s: %s", joinPaths(outputs), rule)
	if len(inputs) > 0 {
		fmt.Fprintf(n.w, " %s", joinPaths(inputs))
	}
	if len(implicit) > 0 {
		fmt.Fprintf(n.w, " | %s", joinPaths(implicit))
	}
	fmt.Fprintln(n.w)
	for _, kv := range vars {
		fmt.Fprintf(n.w, "  %s = %s\n", kv[0], kv[1])
	}
}

// Default declares the targets ninja builds when invoked bare.
func (n *Writer) Default(targets []string) {
	fmt.Fprintf(n.w, "default %s\n", joinPaths(targets))
}

// escapePath protects the characters ninja treats specially in paths.
func escapePath(path string) string {
	r := strings.NewReplacer("$", "$$", " ", "$ ", ":", "$:")
	return r.Replace(path)
}

func joinPaths(paths []string) string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = escapePath(p)
	}
	return strings.Join(escaped, " ")
}
