package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/tradefleet/internal/ctxlog"
)

// defaultBinary is the runner executable resolved from PATH when no
// explicit path is configured.
const defaultBinary = "ansible-playbook"

// Ansible invokes ansible-playbook with the assembled inventory written to
// a private temporary file. It is a thin wrapper over the process: argv and
// environment in, exit code out.
type Ansible struct {
	// Binary overrides the runner executable; empty means "ansible-playbook"
	// from PATH.
	Binary string
	// Stdout and Stderr receive the runner's output; nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run writes the inventory file, builds the runner environment and blocks
// until the runner process exits. A non-zero exit is not an error here: the
// Result carries it, and the caller owns the exit-code policy.
func (a *Ansible) Run(ctx context.Context, spec *RunSpec) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	invPath, cleanup, err := writeInventory(spec)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	binary := a.Binary
	if binary == "" {
		binary = defaultBinary
	}
	args := []string{"-i", invPath}
	if spec.Verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", spec.Verbosity))
	}
	args = append(args, spec.Playbook)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = runnerEnv(spec)
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	logger.Info("Invoking automation runner.", "binary", binary, "playbook", spec.Playbook, "verbosity", spec.Verbosity)
	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("starting runner %s: %w", binary, err)
		}
		logger.Warn("Runner reported failure.", "exit_code", exitErr.ExitCode())
		return Result{Status: "failed", ExitCode: exitErr.ExitCode()}, nil
	}
	return Result{Status: "successful", ExitCode: 0}, nil
}

// writeInventory materializes the inventory as a single "all" group with
// the hosts and the group-scoped variable set, in the runner's YAML
// inventory format. The file lives in a private temp directory for the
// duration of the run; it carries credentials and is never persisted.
func writeInventory(spec *RunSpec) (string, func(), error) {
	doc := map[string]any{
		"all": map[string]any{
			"hosts": spec.Inventory.Hosts,
			"vars":  spec.Inventory.Vars,
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", nil, fmt.Errorf("encoding inventory: %w", err)
	}

	dir, err := os.MkdirTemp("", "tradefleet-inventory-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating inventory directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, "inventory.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing inventory file: %w", err)
	}
	return path, cleanup, nil
}

// runnerEnv builds the runner process environment: the runner's own log
// routing when enabled, and no color unless asked for.
func runnerEnv(spec *RunSpec) []string {
	env := os.Environ()
	if spec.EnableLog {
		env = append(env, "ANSIBLE_LOG_PATH="+spec.LogPath)
	}
	if !spec.Color {
		env = append(env, "ANSIBLE_NOCOLOR=1")
	}
	return env
}
