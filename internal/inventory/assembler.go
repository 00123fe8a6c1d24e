package inventory

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/tradefleet/internal/cluster"
	"github.com/vk/tradefleet/internal/ctxlog"
	"github.com/vk/tradefleet/internal/fragment"
	"github.com/vk/tradefleet/internal/fsutil"
)

// Assembler is the top-level entry point of the resolution engine: it
// validates the invocation, drives the Merger and returns the finished
// Inventory plus the resolved playbook path. It performs no side effects
// beyond file reads and never invokes the external runner itself.
type Assembler struct {
	merger *Merger
	family cluster.Family
	store  *fragment.Store
}

// NewAssembler creates an Assembler over one cluster family.
func NewAssembler(merger *Merger, family cluster.Family, store *fragment.Store) *Assembler {
	return &Assembler{merger: merger, family: family, store: store}
}

// Assemble produces the (hosts, vars) pair for one cluster and the resolved
// playbook path. clusterID must be non-empty, the cluster's configuration
// root must exist, and playbookRel must resolve to a regular file under the
// family's playbook home.
func (a *Assembler) Assemble(ctx context.Context, clusterID, playbookRel, overrides string) (*Inventory, string, error) {
	logger := ctxlog.FromContext(ctx)

	if clusterID == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrMissingArgument, a.family.IDVarKey)
	}

	clusterRoot := a.family.ConfigRoot(clusterID)
	if err := a.store.CheckDir(clusterRoot); err != nil {
		return nil, "", err
	}

	playbookPath := filepath.Join(a.family.PlaybookHome, playbookRel)
	if !fsutil.FileExists(playbookPath) {
		return nil, "", &MissingPlaybookError{Path: playbookPath}
	}

	logger.Debug("Assembling inventory.", "family", a.family.Type, "cluster_id", clusterID, "playbook", playbookPath)

	vars, err := a.merger.BuildVariables(ctx, clusterRoot, overrides)
	if err != nil {
		return nil, "", err
	}
	vars[a.family.IDVarKey] = clusterID

	hosts, err := a.merger.BuildHosts(ctx, clusterID, clusterRoot)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Inventory assembled.", "family", a.family.Type, "cluster_id", clusterID, "hosts", len(hosts), "vars", len(vars))
	return &Inventory{Hosts: hosts, Vars: vars}, playbookPath, nil
}
