package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tradefleet/internal/cluster"
	"github.com/vk/tradefleet/internal/fragment"
)

func mdsAssembler(t *testing.T, root string) *Assembler {
	t.Helper()
	s := fixtureSettings(root)
	family, err := cluster.ForType(cluster.MarketData, s)
	require.NoError(t, err)
	store := fragment.NewStore()
	return NewAssembler(NewMerger(store, s, family, fixedClock), family, store)
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	root := mdsTree(t, nil)
	a := mdsAssembler(t, root)

	inv, playbook, err := a.Assemble(context.Background(), "01", "site.yaml", "region=B")
	require.NoError(t, err)

	assert.Contains(t, playbook, "resource/mds/playbook/site.yaml")
	require.Len(t, inv.Hosts, 2)
	assert.Contains(t, inv.Hosts, "mds_01_master")
	assert.Contains(t, inv.Hosts, "mds_01_slave")

	// The cluster identifier is injected into the final variable set.
	assert.Equal(t, "01", inv.Vars["colony_num"])
	assert.Equal(t, "B", inv.Vars["region"])
	assert.Equal(t, true, inv.Vars[VarIsTradingDay])
}

func TestAssemble_EmptyClusterID(t *testing.T) {
	t.Parallel()

	root := mdsTree(t, nil)
	a := mdsAssembler(t, root)

	_, _, err := a.Assemble(context.Background(), "", "site.yaml", "")
	require.ErrorIs(t, err, ErrMissingArgument)
	assert.Contains(t, err.Error(), "colony_num")
}

func TestAssemble_MissingConfigRoot(t *testing.T) {
	t.Parallel()

	root := mdsTree(t, nil)
	a := mdsAssembler(t, root)

	_, _, err := a.Assemble(context.Background(), "02", "site.yaml", "")
	var missing *fragment.MissingDirError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Path, "config/02")
}

func TestAssemble_MissingPlaybook(t *testing.T) {
	t.Parallel()

	root := mdsTree(t, nil)
	a := mdsAssembler(t, root)

	_, _, err := a.Assemble(context.Background(), "01", "absent.yaml", "")
	var missing *MissingPlaybookError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Path, "absent.yaml")
}

func TestAssemble_PlaybookMustBeRegularFile(t *testing.T) {
	t.Parallel()

	// A directory at the playbook path is as fatal as an absent file.
	root := mdsTree(t, map[string]string{
		"resource/mds/playbook/roles/.keep": "",
	})
	a := mdsAssembler(t, root)

	_, _, err := a.Assemble(context.Background(), "01", "roles", "")
	var missing *MissingPlaybookError
	require.ErrorAs(t, err, &missing)
}
