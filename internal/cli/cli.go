package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/typeops/fontbake/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fontbake", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
fontbake - Compile a font build recipe into a ninja file and run it.

Usage:
  fontbake [options] [RECIPE_PATH]

Arguments:
  RECIPE_PATH
    Path to a recipe file. The loader is chosen from the extension:
    .hcl for HCL recipes, .yaml or .yml for classic YAML configs.

Options:
`)
		flagSet.PrintDefaults()
	}

	recipeFlag := flagSet.String("recipe", "", "Path to the recipe file.")
	rFlag := flagSet.String("r", "", "Path to the recipe file (shorthand).")
	outputFlag := flagSet.String("o", "build.ninja", "Path of the generated ninja file.")
	generateFlag := flagSet.Bool("generate", false, "Print the fully expanded recipe and exit.")
	noNinjaFlag := flagSet.Bool("no-ninja", false, "Write the ninja file but do not run ninja.")
	cleanFlag := flagSet.Bool("clean", false, "Remove intermediate files after a successful build.")
	verboseNamesFlag := flagSet.Bool("verbose-names", false, "Use debug-friendly names for intermediate files.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *recipeFlag != "" {
		path = *recipeFlag
	} else if *rFlag != "" {
		path = *rFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Recipe path determined.", "path", path)

	if path == "" {
		slog.Debug("No recipe path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RecipePath:   path,
		Output:       *outputFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Generate:     *generateFlag,
		NoNinja:      *noNinjaFlag,
		Clean:        *cleanFlag,
		VerboseNames: *verboseNamesFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
