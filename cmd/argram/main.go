package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/argram/grammar"
	"github.com/vk/argram/internal/app"
)

// main is the entrypoint for the argram binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*app.ExitError); ok {
			// Faults render before the ExitError surfaces, so the
			// message is often already on the error stream.
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling.
func run(outW, errW io.Writer, args []string) (err error) {
	cfg, argv, shouldExit, err := parseArgs(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here to
	// hand the caller a clean exit message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := grammar.New()
	argramApp := app.New(outW, errW, cfg, loader)

	return argramApp.Run(context.Background(), argv)
}

// parseArgs processes the binary's own command-line surface. It returns
// the runner configuration, the leftover arguments to resolve against
// the loaded grammar, and a boolean indicating the program should exit
// cleanly without running.
func parseArgs(args []string, output io.Writer) (*app.Config, []string, bool, error) {
	flagSet := flag.NewFlagSet("argram", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Argram - A grammar-driven command-line argument engine.

Usage:
  argram [options] MANIFEST_PATH [--] [ARG...]

Arguments:
  MANIFEST_PATH
    Path to a single .hcl manifest or a directory containing .hcl manifests.
  ARG...
    The command line to resolve against the loaded grammar.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to the manifest file or directory (shorthand).")
	rootFlag := flagSet.String("root", "", "Root command to resolve against when manifests declare several.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	widthFlag := flagSet.Int("width", 0, "Rendering width in columns. 0 uses the default.")
	fancyFlag := flagSet.Bool("fancy", false, "Draw help, version and fault pages inside panels.")
	colorFlag := flagSet.Bool("color", false, "Style rendered output with ANSI colors.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, true, nil
		}
		return nil, nil, false, &app.ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	argv := flagSet.Args()
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if len(argv) > 0 {
		path = argv[0]
		argv = argv[1:]
	}
	// When the path is positional the "--" separator survives parsing.
	if len(argv) > 0 && argv[0] == "--" {
		argv = argv[1:]
	}

	if path == "" {
		flagSet.Usage()
		return nil, nil, true, nil
	}

	cfg, err := app.NewConfig(app.Config{
		ManifestPath: path,
		RootName:     *rootFlag,
		LogFormat:    *logFormatFlag,
		LogLevel:     *logLevelFlag,
		Width:        *widthFlag,
		Fancy:        *fancyFlag,
		Color:        *colorFlag,
	})
	if err != nil {
		return nil, nil, false, &app.ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, argv, false, nil
}
