// Package settings builds the process-wide execution-environment
// configuration: the directory layout of the configuration storage tree,
// the job log path and record id, and the interpreter handed to remote
// actions. Settings come from environment variables, optionally overridden
// by an HCL settings file, and are passed explicitly into the engine so
// tests can construct it against synthetic paths.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names consumed at process start.
const (
	EnvBaseDir  = "JOBS_BASE_DIR"
	EnvLogPath  = "JOBS_LOG_PATH"
	EnvRecordID = "JOBS_RECORD_ID"
)

// defaultInterpreter is the python interpreter remote actions run under
// when neither the environment nor the settings file names one.
const defaultInterpreter = "/usr/bin/python3"

// Settings holds the resolved execution environment. All paths are
// absolute.
type Settings struct {
	// BaseDir is the deployment root; storage and resource trees hang off it.
	BaseDir string
	// StorageDir holds the per-cluster configuration trees.
	StorageDir string
	// HostVarsDir holds the global per-host fragments (host_{id}.<ext>).
	HostVarsDir string
	// ResourceDir holds the per-family script and playbook homes.
	ResourceDir string
	// LogPath is the job log file the runner writes to.
	LogPath string
	// RecordID identifies the automation run in the jobs system; "0" when
	// the run is not tracked.
	RecordID string
	// Interpreter is the python interpreter path handed to remote actions.
	Interpreter string
}

// FromEnv resolves Settings from the process environment. JOBS_BASE_DIR and
// JOBS_LOG_PATH are mandatory; JOBS_RECORD_ID defaults to "0" for untracked
// runs.
func FromEnv() (Settings, error) {
	baseDir := os.Getenv(EnvBaseDir)
	if baseDir == "" {
		return Settings{}, fmt.Errorf("environment variable %s is not set", EnvBaseDir)
	}
	logPath := os.Getenv(EnvLogPath)
	if logPath == "" {
		return Settings{}, fmt.Errorf("environment variable %s is not set", EnvLogPath)
	}
	recordID := os.Getenv(EnvRecordID)
	if recordID == "" {
		recordID = "0"
	}

	s := Settings{
		BaseDir:     baseDir,
		LogPath:     logPath,
		RecordID:    recordID,
		Interpreter: defaultInterpreter,
	}
	s.applyLayout()
	return s, nil
}

// applyLayout derives the storage and resource trees from BaseDir for any
// field not already set.
func (s *Settings) applyLayout() {
	if s.StorageDir == "" {
		s.StorageDir = filepath.Join(s.BaseDir, "storage")
	}
	if s.HostVarsDir == "" {
		s.HostVarsDir = filepath.Join(s.StorageDir, "host_vars")
	}
	if s.ResourceDir == "" {
		s.ResourceDir = filepath.Join(s.BaseDir, "resource")
	}
}

// FamilyStorageDir returns the storage tree of one cluster family, e.g.
// {storage}/mds.
func (s Settings) FamilyStorageDir(familyType string) string {
	return filepath.Join(s.StorageDir, familyType)
}

// FamilyResourceDir returns the resource tree of one cluster family, e.g.
// {resource}/mds.
func (s Settings) FamilyResourceDir(familyType string) string {
	return filepath.Join(s.ResourceDir, familyType)
}

// HostFragmentPath returns the global per-host fragment path for a host id
// in the given encoding.
func (s Settings) HostFragmentPath(hostID, ext string) string {
	return filepath.Join(s.HostVarsDir, fmt.Sprintf("host_%s.%s", hostID, strings.TrimPrefix(ext, ".")))
}
