package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/objectmomma/internal/app"
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
	flagSet := flag.NewFlagSet("objectmomma", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ObjectMomma - Actualize test fixtures from human-readable identifiers.

Usage:
  objectmomma [options] CALL IDENTIFIER [CALL IDENTIFIER ...]

Arguments:
  CALL
    A call name: TYPE or spawn_TYPE (find or create), create_TYPE,
    find_TYPE, or TYPE_attributes.
  IDENTIFIER
    The object's display identifier, e.g. "Post about Comic Books".

Options:
`)
		flagSet.PrintDefaults()
	}

	modulesPathFlag := flagSet.String("modules-path", "modules", "Path to the directory containing builder manifests.")
	attributesFlag := flagSet.String("attributes", "", "Path to a directory of YAML attribute overlays.")
	spawnFlag := flagSet.String("spawn", "", "Path to a YAML file of identifiers to spawn before running calls.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	rest := flagSet.Args()
	if len(rest) == 0 && *spawnFlag == "" {
		slog.Debug("No calls provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if len(rest)%2 != 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("call %q has no identifier: arguments must come in CALL IDENTIFIER pairs", rest[len(rest)-1])}
	}

	calls := make([]app.Invocation, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		calls = append(calls, app.Invocation{Call: rest[i], Identifier: rest[i+1]})
	}

	config, err := app.NewConfig(app.Config{
		ModulesPath:    *modulesPathFlag,
		AttributesPath: *attributesFlag,
		SpawnPath:      *spawnFlag,
		LogFormat:      strings.ToLower(*logFormatFlag),
		LogLevel:       strings.ToLower(*logLevelFlag),
		Calls:          calls,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
