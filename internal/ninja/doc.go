// Package ninja writes the compiled graph out as a ninja build file: one
// rule declaration per operation kind, one build statement per operation
// instance, and a default statement listing the terminal artifacts. The
// emitted rule set is deterministic for a given graph; executing it is
// ninja's job, not ours.
package ninja
