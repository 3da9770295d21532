package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/formgridgo/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("formgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
FormGridGo - a dependency-aware cascading-choice engine for interactive forms.

Usage:
  formgridgo [options] [FORM_PATH]

Arguments:
  FORM_PATH
    Path to a single .hcl form file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	formFlag := flagSet.String("form", "", "Path to the form file or directory.")
	fFlag := flagSet.String("f", "", "Path to the form file or directory (shorthand).")
	profileFlag := flagSet.String("profile", "", "Path to a YAML execution profile (timeout, max results, slow threshold).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	shellFlag := flagSet.String("shell", "", "Shell used to run computed sources. Defaults to /bin/sh.")
	feedURLFlag := flagSet.String("feed-url", "", "Optional socket.io endpoint to publish choice updates to.")
	interactiveFlag := flagSet.Bool("interactive", false, "Walk the form interactively instead of a one-shot population.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *formFlag != "" {
		path = *formFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		slog.Debug("No form path provided, printing usage and exiting.")
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

	config, err := app.NewConfig(app.Config{
		FormPath:    path,
		ProfilePath: *profileFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Shell:       *shellFlag,
		FeedURL:     *feedURLFlag,
		Interactive: *interactiveFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
