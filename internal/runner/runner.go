// Package runner is the boundary to the external automation runner. The
// engine hands it a finished inventory and a playbook path; everything past
// that point (remote execution, its protocol, its timeouts) belongs to the
// runner.
package runner

import (
	"context"

	"github.com/vk/tradefleet/internal/inventory"
)

// RunSpec carries everything one runner invocation needs.
type RunSpec struct {
	// Inventory is the assembled hosts-plus-variables structure, attached
	// to a single top-level group.
	Inventory *inventory.Inventory
	// Playbook is the absolute path of the playbook to execute.
	Playbook string
	// Verbosity is the runner output level, 0 (quiet) through 4.
	Verbosity int
	// EnableLog routes the runner's own log to LogPath.
	EnableLog bool
	// LogPath is the job log file, used when EnableLog is set.
	LogPath string
	// Color enables colored runner output; off by default since runs are
	// captured into job logs.
	Color bool
}

// Result is the runner's terminal status for one invocation.
type Result struct {
	// Status is the runner-reported outcome string, e.g. "successful".
	Status string
	// ExitCode is the runner process exit code.
	ExitCode int
}

// Successful reports whether the run completed without failures. The
// process exit code of the assembling entry point follows this.
func (r Result) Successful() bool {
	return r.ExitCode == 0
}

// Runner executes one prepared automation run.
type Runner interface {
	Run(ctx context.Context, spec *RunSpec) (Result, error)
}
