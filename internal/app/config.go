package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// RecipePath points at the recipe/config file. The loader is chosen
	// from its extension.
	RecipePath string
	// Output is where the generated ninja file is written.
	Output string

	LogFormat string
	LogLevel  string

	// Generate prints the fully expanded recipe instead of building.
	Generate bool
	// NoNinja stops after writing the ninja file.
	NoNinja bool
	// Clean removes intermediate artifacts after a successful build.
	Clean bool
	// VerboseNames switches temporary artifacts to debug-friendly names.
	VerboseNames bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}
	if cfg.Output == "" {
		cfg.Output = "build.ninja"
	}
	return &cfg, nil
}
