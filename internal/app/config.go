package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ClusterType selects the cluster family: mds, mon or oes.
	ClusterType string
	// ClusterID identifies the cluster inside its family: the colony
	// number for mds/oes, the monitoring host id for mon.
	ClusterID string
	// PlaybookPath is the playbook's path relative to the family's
	// playbook home.
	PlaybookPath string
	// ExtraVars is the ";"-separated key=value override string.
	ExtraVars string
	// CurrDate optionally pins the run's reference date (YYYYMMDD); it
	// joins the override layer, so file-derived dates still lose to it.
	CurrDate string
	// Verbosity is the runner output level, 0 through 4.
	Verbosity int
	// EnableRunnerLog routes the runner's own log to the job log path.
	EnableRunnerLog bool
	// SettingsPath optionally names an HCL settings file; empty means
	// environment-only settings.
	SettingsPath string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ClusterType == "" {
		return nil, errors.New("ClusterType is a required configuration field and cannot be empty")
	}
	if cfg.PlaybookPath == "" {
		return nil, errors.New("PlaybookPath is a required configuration field and cannot be empty")
	}
	if cfg.Verbosity < 0 || cfg.Verbosity > 4 {
		return nil, fmt.Errorf("Verbosity must be between 0 and 4, got %d", cfg.Verbosity)
	}
	return &cfg, nil
}
