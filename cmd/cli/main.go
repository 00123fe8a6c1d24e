package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/tradefleet/internal/app"
	"github.com/vk/tradefleet/internal/cli"
)

// main is the entrypoint for the tradefleet application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		// The process exit code mirrors the downstream runner's verdict.
		var runErr *app.RunFailedError
		if errors.As(err, &runErr) {
			fmt.Fprintln(os.Stderr, runErr)
			os.Exit(runErr.Result.ExitCode)
		}
		// Every other failure is a configuration error caught before any
		// remote host was touched.
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

	// The app panics on critical startup errors (unresolvable settings,
	// unknown family), so we recover here to provide a clean exit message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	fleetApp := app.NewApp(outW, appConfig, nil)
	return fleetApp.Run(context.Background())
}
