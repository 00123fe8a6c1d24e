// Package app wires the resolution engine together for one invocation:
// settings, fragment store, merger, assembler and the external runner.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vk/tradefleet/internal/cluster"
	"github.com/vk/tradefleet/internal/fragment"
	"github.com/vk/tradefleet/internal/inventory"
	"github.com/vk/tradefleet/internal/runner"
	"github.com/vk/tradefleet/internal/settings"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	settings  settings.Settings
	family    cluster.Family
	assembler *inventory.Assembler
	runner    runner.Runner
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A nil run falls
// back to the ansible-playbook adapter. Settings or family resolution
// failures are fatal startup errors and panic; main recovers them into a
// clean exit.
func NewApp(outW io.Writer, cfg *Config, run runner.Runner) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	var (
		s   settings.Settings
		err error
	)
	if cfg.SettingsPath != "" {
		s, err = settings.LoadFile(cfg.SettingsPath)
	} else {
		s, err = settings.FromEnv()
	}
	if err != nil {
		panic(fmt.Errorf("failed to resolve settings: %w", err))
	}
	logger.Debug("Settings resolved.", "base_dir", s.BaseDir)

	familyType, err := cluster.ParseType(cfg.ClusterType)
	if err != nil {
		panic(err)
	}
	family, err := cluster.ForType(familyType, s)
	if err != nil {
		panic(err)
	}

	store := fragment.NewStore()
	merger := inventory.NewMerger(store, s, family, time.Now)
	assembler := inventory.NewAssembler(merger, family, store)

	if run == nil {
		run = &runner.Ansible{Stdout: outW, Stderr: outW}
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		settings:  s,
		family:    family,
		assembler: assembler,
		runner:    run,
	}
}

// Settings returns the resolved process settings. This is primarily for testing.
func (a *App) Settings() settings.Settings {
	return a.settings
}
