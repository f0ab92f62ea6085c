package config

import "context"

// Loader is the interface for a format-specific recipe loader. It reads a
// configuration file, translates it into the format-agnostic model, and
// leaves all graph-level validation to the compiler.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
