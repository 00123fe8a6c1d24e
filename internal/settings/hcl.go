package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// fileSchema is the HCL surface of a settings file. Every attribute is
// optional; unset attributes fall back to the environment-derived value.
type fileSchema struct {
	BaseDir     string `hcl:"base_dir,optional"`
	StorageDir  string `hcl:"storage_dir,optional"`
	HostVarsDir string `hcl:"host_vars_dir,optional"`
	ResourceDir string `hcl:"resource_dir,optional"`
	LogPath     string `hcl:"log_path,optional"`
	RecordID    string `hcl:"record_id,optional"`
	Interpreter string `hcl:"python_interpreter,optional"`
}

// LoadFile resolves Settings from an HCL settings file layered over the
// process environment. Attribute expressions may reference the environment
// through an `env` object, e.g. `base_dir = "${env.HOME}/fleet"`.
//
// JOBS_BASE_DIR and JOBS_LOG_PATH remain mandatory, but the file may be the
// thing that supplies them.
func LoadFile(path string) (Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, diags)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &raw); diags.HasErrors() {
		return Settings{}, fmt.Errorf("decoding settings file %s: %w", path, diags)
	}

	s := Settings{
		BaseDir:     firstNonEmpty(raw.BaseDir, os.Getenv(EnvBaseDir)),
		StorageDir:  raw.StorageDir,
		HostVarsDir: raw.HostVarsDir,
		ResourceDir: raw.ResourceDir,
		LogPath:     firstNonEmpty(raw.LogPath, os.Getenv(EnvLogPath)),
		RecordID:    firstNonEmpty(raw.RecordID, os.Getenv(EnvRecordID), "0"),
		Interpreter: firstNonEmpty(raw.Interpreter, defaultInterpreter),
	}
	if s.BaseDir == "" {
		return Settings{}, fmt.Errorf("settings file %s sets no base_dir and %s is not set", path, EnvBaseDir)
	}
	if s.LogPath == "" {
		return Settings{}, fmt.Errorf("settings file %s sets no log_path and %s is not set", path, EnvLogPath)
	}
	s.applyLayout()
	return s, nil
}

// envObject exposes the process environment to settings expressions as a
// single cty object value.
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			vars[key] = cty.StringVal(value)
		}
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
