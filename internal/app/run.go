package app

import (
	"context"
	"fmt"

	"github.com/vk/tradefleet/internal/ctxlog"
	"github.com/vk/tradefleet/internal/inventory"
	"github.com/vk/tradefleet/internal/runner"
)

// RunFailedError reports that the external runner completed with a failure
// status. The CLI maps it onto the process exit code.
type RunFailedError struct {
	Result runner.Result
}

// Error implements the error interface for RunFailedError.
func (e *RunFailedError) Error() string {
	return fmt.Sprintf("automation run finished with status %q (exit code %d)", e.Result.Status, e.Result.ExitCode)
}

// Run executes the main application logic: assemble the inventory for the
// selected cluster, then hand it to the external runner. The run either
// completes or fails fast on the first inconsistency, before any remote
// host is touched.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	inv, playbook, err := a.Assemble(ctx)
	if err != nil {
		return err
	}

	result, err := a.runner.Run(ctx, &runner.RunSpec{
		Inventory: inv,
		Playbook:  playbook,
		Verbosity: a.config.Verbosity,
		EnableLog: a.config.EnableRunnerLog,
		LogPath:   a.settings.LogPath,
	})
	if err != nil {
		return fmt.Errorf("invoking automation runner: %w", err)
	}
	if !result.Successful() {
		return &RunFailedError{Result: result}
	}

	a.logger.Info("Automation run finished.", "status", result.Status)
	return nil
}

// Assemble resolves the inventory without invoking the runner. The explicit
// reference-date flag joins the override layer here, so it keeps the exact
// precedence an extravars entry would have.
func (a *App) Assemble(ctx context.Context) (*inventory.Inventory, string, error) {
	overrides := a.config.ExtraVars
	if a.config.CurrDate != "" {
		entry := inventory.VarCurrDate + "=" + a.config.CurrDate
		if overrides == "" {
			overrides = entry
		} else {
			overrides = overrides + ";" + entry
		}
	}
	return a.assembler.Assemble(ctx, a.config.ClusterID, a.config.PlaybookPath, overrides)
}
