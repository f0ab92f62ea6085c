// Package config defines the format-agnostic recipe model consumed by the
// graph compiler, along with the Loader seam implemented by the HCL and
// YAML adapters. A recipe maps each output target to an ordered chain of
// steps; a step either declares a source file, applies a named operation,
// or applies a postprocessing side effect.
package config
