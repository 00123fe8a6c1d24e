// Package cli parses command-line arguments, validates user input, and
// handles process-level concerns like exit codes. It translates CLI flags
// into the application's internal configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/tradefleet/internal/app"
	"github.com/vk/tradefleet/internal/cluster"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tradefleet", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
tradefleet - prepares and launches automation runs against the trading fleet.

Usage:
  tradefleet -cluster TYPE -id ID -playbook PATH [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	clusterFlag := flagSet.String("cluster", "", "Cluster family to target: 'mds', 'mon' or 'oes'.")
	idFlag := flagSet.String("id", "", "Cluster identifier: colony number for mds/oes, monitoring host id for mon.")
	playbookFlag := flagSet.String("playbook", "", "Playbook path, relative to the family's playbook home.")
	extraVarsFlag := flagSet.String("extravars", "", "Extra variables as ';'-separated key=value pairs (a=b;c=d).")
	currDateFlag := flagSet.String("curr-date", "", "Explicit reference date (YYYYMMDD). Defaults to the local current date.")
	verbosityFlag := flagSet.Int("verbosity", 0, "Runner output verbosity, 0 (least) through 4 (most).")
	runnerLogFlag := flagSet.Bool("enable-runner-log", false, "Route the runner's own log to the job log path.")
	settingsFlag := flagSet.String("settings", "", "Path to an HCL settings file. Defaults to environment-only settings.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *clusterFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}
	if _, err := cluster.ParseType(*clusterFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if *verbosityFlag < 0 || *verbosityFlag > 4 {
		return nil, false, &ExitError{Code: 2, Message: "invalid verbosity: must be between 0 and 4"}
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
		ClusterType:     *clusterFlag,
		ClusterID:       *idFlag,
		PlaybookPath:    *playbookFlag,
		ExtraVars:       *extraVarsFlag,
		CurrDate:        *currDateFlag,
		Verbosity:       *verbosityFlag,
		EnableRunnerLog: *runnerLogFlag,
		SettingsPath:    *settingsFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
