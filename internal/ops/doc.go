// Package ops defines the operation capability interface consumed by the
// chain compiler and rule emitter, plus the built-in font operation kinds.
// Capabilities are registered in an explicitly constructed map and injected
// into the compiler; there is no runtime scanning or reflection-based
// discovery.
package ops
