package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"-cluster", "mds",
		"-id", "01",
		"-playbook", "site.yaml",
		"-extravars", "region=B;extra=1",
		"-curr-date", "20240108",
		"-verbosity", "2",
		"-enable-runner-log",
		"-log-format", "text",
		"-log-level", "debug",
	}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "mds", cfg.ClusterType)
	assert.Equal(t, "01", cfg.ClusterID)
	assert.Equal(t, "site.yaml", cfg.PlaybookPath)
	assert.Equal(t, "region=B;extra=1", cfg.ExtraVars)
	assert.Equal(t, "20240108", cfg.CurrDate)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.True(t, cfg.EnableRunnerLog)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_NoClusterPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	t.Parallel()

	_, shouldExit, err := Parse([]string{"-h"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, shouldExit)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"unknown cluster type": {"-cluster", "mdx", "-playbook", "site.yaml"},
		"verbosity range":      {"-cluster", "mds", "-playbook", "site.yaml", "-verbosity", "5"},
		"log format":           {"-cluster", "mds", "-playbook", "site.yaml", "-log-format", "xml"},
		"log level":            {"-cluster", "mds", "-playbook", "site.yaml", "-log-level", "loud"},
		"missing playbook":     {"-cluster", "mds", "-id", "01"},
	}

	for name, args := range cases {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Parse(args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
