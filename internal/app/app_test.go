package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tradefleet/internal/runner"
	"github.com/vk/tradefleet/internal/settings"
	"github.com/vk/tradefleet/internal/testutil"
)

// stubRunner records the spec it was handed and reports a canned result.
type stubRunner struct {
	spec   *runner.RunSpec
	result runner.Result
	err    error
}

func (s *stubRunner) Run(_ context.Context, spec *runner.RunSpec) (runner.Result, error) {
	s.spec = spec
	return s.result, s.err
}

// fixtureEnv materializes a minimal mds colony tree and points the process
// environment at it.
func fixtureEnv(t *testing.T) string {
	t.Helper()

	root := testutil.WriteTree(t, map[string]string{
		"storage/mds/config/01/all/colony.yaml":   "mon_node_id: 3\ncolony_num: \"01\"\n",
		"storage/mds/config/01/host_01/node.yaml": "host_id: 11\nnode_role: master\n",
		"storage/mds/mon/01/TrdDateList.yaml":     "trd_date_2024_list: [20240105, 20240108, 20240109]\n",
		"storage/mon/config/3/mon.yaml":           "host_id: 31\n",
		"storage/host_vars/host_11.yaml":          "ansible_host: 10.0.0.11\n",
		"storage/host_vars/host_31.yaml":          "ansible_host: 10.0.0.31\n",
		"resource/mds/playbook/site.yaml":         "- hosts: all\n",
	})
	t.Setenv(settings.EnvBaseDir, root)
	t.Setenv(settings.EnvLogPath, root+"/run.log")
	t.Setenv(settings.EnvRecordID, "7")
	return root
}

func testConfig() *Config {
	return &Config{
		ClusterType:  "mds",
		ClusterID:    "01",
		PlaybookPath: "site.yaml",
		CurrDate:     "20240108",
		Verbosity:    1,
		LogFormat:    "text",
		LogLevel:     "debug",
	}
}

func TestAppRun(t *testing.T) {
	fixtureEnv(t)

	logBuf := &testutil.SafeBuffer{}
	stub := &stubRunner{result: runner.Result{Status: "successful"}}
	a := NewApp(logBuf, testConfig(), stub)

	require.NoError(t, a.Run(context.Background()))

	require.NotNil(t, stub.spec, "the runner must be invoked")
	assert.Equal(t, 1, stub.spec.Verbosity)
	assert.Contains(t, stub.spec.Playbook, "site.yaml")
	assert.Equal(t, "01", stub.spec.Inventory.Vars["colony_num"])
	assert.Equal(t, "20240108", stub.spec.Inventory.Vars["curr_date"])
	assert.Contains(t, stub.spec.Inventory.Hosts, "mds_01_master")
	assert.Contains(t, logBuf.String(), "Inventory assembled")
}

func TestAppRun_RunnerFailureDrivesExit(t *testing.T) {
	fixtureEnv(t)

	stub := &stubRunner{result: runner.Result{Status: "failed", ExitCode: 2}}
	a := NewApp(&testutil.SafeBuffer{}, testConfig(), stub)

	err := a.Run(context.Background())
	var failed *RunFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 2, failed.Result.ExitCode)
}

func TestAppRun_AssemblyFailureSkipsRunner(t *testing.T) {
	fixtureEnv(t)

	cfg := testConfig()
	cfg.ClusterID = "" // MissingRequiredArgument surfaces from the engine
	stub := &stubRunner{result: runner.Result{Status: "successful"}}
	a := NewApp(&testutil.SafeBuffer{}, cfg, stub)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, stub.spec, "a failed assembly must stop the run before the runner")
}

func TestAppAssemble_CurrDateJoinsOverrideLayer(t *testing.T) {
	fixtureEnv(t)

	cfg := testConfig()
	cfg.CurrDate = "20240106" // Saturday
	cfg.ExtraVars = "region=B"
	a := NewApp(&testutil.SafeBuffer{}, cfg, &stubRunner{})

	inv, _, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "20240106", inv.Vars["curr_date"])
	assert.Equal(t, "B", inv.Vars["region"])
	assert.Equal(t, false, inv.Vars["is_trading_day"])
	assert.Equal(t, "20240108", inv.Vars["next_trd_date"])
	assert.Equal(t, "20240105", inv.Vars["pre_trd_date"])
}

func TestNewApp_PanicsWithoutSettings(t *testing.T) {
	t.Setenv(settings.EnvBaseDir, "")
	t.Setenv(settings.EnvLogPath, "")

	require.Panics(t, func() {
		NewApp(&testutil.SafeBuffer{}, testConfig(), &stubRunner{})
	})
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{PlaybookPath: "site.yaml"})
	require.Error(t, err)

	_, err = NewConfig(Config{ClusterType: "mds"})
	require.Error(t, err)

	_, err = NewConfig(Config{ClusterType: "mds", PlaybookPath: "site.yaml", Verbosity: 9})
	require.Error(t, err)

	cfg, err := NewConfig(Config{ClusterType: "mds", PlaybookPath: "site.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "mds", cfg.ClusterType)
}
