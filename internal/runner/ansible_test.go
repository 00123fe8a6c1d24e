package runner

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vk/tradefleet/internal/inventory"
)

func fixtureSpec() *RunSpec {
	return &RunSpec{
		Inventory: &inventory.Inventory{
			Hosts: map[string]inventory.HostRecord{
				"mds_01_master": {"ansible_host": "10.0.0.11"},
			},
			Vars: inventory.VariableSet{"curr_date": "20240108"},
		},
		Playbook: "/srv/fleet/resource/mds/playbook/site.yaml",
	}
}

func TestAnsible_Run_SuccessAndFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// "true" and "false" stand in for the runner binary: the adapter's
	// only job is to forward the verdict.
	ok, err := (&Ansible{Binary: "true", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}).Run(ctx, fixtureSpec())
	require.NoError(t, err)
	assert.True(t, ok.Successful())
	assert.Equal(t, "successful", ok.Status)

	failed, err := (&Ansible{Binary: "false", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}).Run(ctx, fixtureSpec())
	require.NoError(t, err)
	assert.False(t, failed.Successful())
	assert.Equal(t, 1, failed.ExitCode)
}

func TestAnsible_Run_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := (&Ansible{Binary: "definitely-not-a-runner-binary"}).Run(context.Background(), fixtureSpec())
	require.Error(t, err)
}

func TestWriteInventory(t *testing.T) {
	t.Parallel()

	path, cleanup, err := writeInventory(fixtureSpec())
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The runner sees one top-level group with all hosts and the merged
	// variable set at group scope.
	var doc map[string]map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))

	all, ok := doc["all"]
	require.True(t, ok)
	assert.Contains(t, all["hosts"], "mds_01_master")
	assert.Equal(t, "20240108", all["vars"]["curr_date"])
}

func TestRunnerEnv(t *testing.T) {
	env := runnerEnv(&RunSpec{EnableLog: true, LogPath: "/var/log/jobs/run.log"})
	assert.Contains(t, env, "ANSIBLE_LOG_PATH=/var/log/jobs/run.log")
	assert.Contains(t, env, "ANSIBLE_NOCOLOR=1")

	env = runnerEnv(&RunSpec{Color: true})
	assert.NotContains(t, env, "ANSIBLE_NOCOLOR=1")
}
