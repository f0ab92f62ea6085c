// Package compiler turns a recipe (target -> ordered step chain) into the
// shared artifact/operation graph. Each target's chain is walked step by
// step, threading a "current artifact" pointer; identical computations
// requested by different targets resolve to the same operation instance,
// and targets that share a computation but need distinct output names get
// a copy edge from the shared result.
//
// Compilation is synchronous, single-threaded, in-memory graph
// construction. Any violated graph invariant aborts the whole compile
// with a structured Error naming the offending target and step.
package compiler
