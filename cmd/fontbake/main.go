package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/typeops/fontbake/internal/app"
	"github.com/typeops/fontbake/internal/cli"
	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/hclrecipe"
	"github.com/typeops/fontbake/internal/yamlrecipe"
)

// main is the entrypoint for the fontbake application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here to
	// surface a clean error to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	fontbakeApp := app.NewApp(outW, appConfig, loaderFor(appConfig.RecipePath), nil)

	return fontbakeApp.Run(context.Background())
}

// loaderFor picks the recipe loader from the file extension. YAML is the
// classic config layout, HCL the native one; HCL is the default for
// unrecognized extensions.
func loaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlrecipe.NewLoader()
	}
	return hclrecipe.NewLoader()
}
