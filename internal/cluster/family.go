// Package cluster describes the three deployable cluster families of the
// trading system and their on-disk configuration layouts. The resolution
// engine is written once and parameterized by a Family value instead of
// being repeated per family.
package cluster

import (
	"fmt"
	"path/filepath"

	"github.com/vk/tradefleet/internal/settings"
)

// Type identifies one cluster family.
type Type string

// The three cluster families.
const (
	MarketData Type = "mds" // market-data service colonies
	Monitor    Type = "mon" // single-host monitoring deployment
	OrderExec  Type = "oes" // order-execution service colonies
)

// Types lists every recognized family type.
var Types = []Type{MarketData, Monitor, OrderExec}

// ParseType validates a family selector from the CLI.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown cluster type %q (expected mds, mon or oes)", s)
}

// Family is the capability set that varies between cluster families:
// fragment encoding, tree layout, calendar-document location and the
// identifier key injected into the final variable set.
type Family struct {
	Type Type

	// Ext is the fragment encoding the family's tree is written in,
	// without the leading dot.
	Ext string

	// StorageDir is the family's storage tree, {storage}/{type}.
	StorageDir string

	// ScriptHome and PlaybookHome are the family's resource locations
	// handed to remote actions.
	ScriptHome   string
	PlaybookHome string

	// HomeVarKey is the variable name carrying StorageDir in the final
	// variable set (local_path_mds_home and friends).
	HomeVarKey string

	// IDVarKey is the variable name the cluster identifier is injected
	// under (colony_num for colonies, mon_id for the monitoring host).
	IDVarKey string

	// ColonyScoped marks multi-node families whose variables embed the
	// monitoring-host record and the trading-calendar fields. The
	// monitoring family itself is not colony scoped: it is the dependency,
	// never the dependent.
	ColonyScoped bool

	// RequiresColonyNum marks families whose colony fragment must declare
	// colony_num (the mds calendar path is keyed by it, and oes colonies
	// number themselves).
	RequiresColonyNum bool

	// calendarDoc locates the family's trading-calendar document; empty
	// for families that carry no calendar fields.
	calendarDoc func(colonyNum string) string
}

// ForType builds the Family layout for one cluster type against the given
// settings.
func ForType(t Type, s settings.Settings) (Family, error) {
	storage := s.FamilyStorageDir(string(t))
	resource := s.FamilyResourceDir(string(t))

	f := Family{
		Type:         t,
		StorageDir:   storage,
		ScriptHome:   filepath.Join(resource, "script"),
		PlaybookHome: filepath.Join(resource, "playbook"),
		HomeVarKey:   fmt.Sprintf("local_path_%s_home", t),
		ColonyScoped: true,
		Ext:          "yaml",
		IDVarKey:     "colony_num",
	}

	switch t {
	case MarketData:
		f.RequiresColonyNum = true
		// The mds calendar is maintained per colony by the monitoring
		// deployment, under the mds storage tree.
		f.calendarDoc = func(colonyNum string) string {
			return filepath.Join(storage, "mon", colonyNum, "TrdDateList.yaml")
		}
	case OrderExec:
		f.RequiresColonyNum = true
		// One deployment-wide calendar for order execution.
		base := s.BaseDir
		f.calendarDoc = func(string) string {
			return filepath.Join(base, "config", "TrdDateList.yaml")
		}
	case Monitor:
		f.ColonyScoped = false
		f.Ext = "json"
		f.IDVarKey = "mon_id"
	default:
		return Family{}, fmt.Errorf("unknown cluster type %q", t)
	}
	return f, nil
}

// ConfigRoot returns the configuration directory of one cluster of this
// family, {storage}/{type}/config/{id}.
func (f Family) ConfigRoot(clusterID string) string {
	return filepath.Join(f.StorageDir, "config", clusterID)
}

// CalendarDocPath locates the family's trading-calendar document. The
// second return is false for families without calendar fields.
func (f Family) CalendarDocPath(colonyNum string) (string, bool) {
	if f.calendarDoc == nil {
		return "", false
	}
	return f.calendarDoc(colonyNum), true
}

// HostKey synthesizes the inventory name of one target host. Colony
// families key by {type}_{colony}_{role}; the monitoring family keys its
// single host by {type}_{id}.
func (f Family) HostKey(clusterID, role string) string {
	if !f.ColonyScoped {
		return fmt.Sprintf("%s_%s", f.Type, clusterID)
	}
	return fmt.Sprintf("%s_%s_%s", f.Type, clusterID, role)
}
