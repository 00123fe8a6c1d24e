package inventory

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vk/tradefleet/internal/calendar"
	"github.com/vk/tradefleet/internal/cluster"
	"github.com/vk/tradefleet/internal/ctxlog"
	"github.com/vk/tradefleet/internal/fragment"
	"github.com/vk/tradefleet/internal/settings"
)

// Variable names with defined merge semantics.
const (
	// VarMonHost embeds the monitoring host's fully merged record in a
	// dependent colony's variables.
	VarMonHost = "mon_host"
	// VarCurrDate is the run's reference date, YYYYMMDD.
	VarCurrDate = "curr_date"
	// VarNextTrdDate and VarPreTrdDate are calendar-derived, set only when
	// an earlier layer did not provide them.
	VarNextTrdDate = "next_trd_date"
	VarPreTrdDate  = "pre_trd_date"
	// VarIsTradingDay is a derived fact and is always recomputed, even
	// over an explicit override.
	VarIsTradingDay = "is_trading_day"
)

// Fragment keys consumed by the merge.
const (
	keyMonNodeID = "mon_node_id"
	keyColonyNum = "colony_num"
	keyHostID    = "host_id"
	keyNodeRole  = "node_role"
)

// Merger builds the variable set and the host map of one cluster, reading
// fragments from a Store and resolving trading dates through the calendar
// resolver. One Merger serves one cluster family.
type Merger struct {
	store    *fragment.Store
	settings settings.Settings
	family   cluster.Family
	now      Clock
}

// NewMerger creates a Merger for the given family.
func NewMerger(store *fragment.Store, s settings.Settings, family cluster.Family, now Clock) *Merger {
	return &Merger{store: store, settings: s, family: family, now: now}
}

// BuildVariables merges the cluster's configuration layers into a single
// variable set, in precedence order: cluster-wide defaults, the embedded
// monitoring-host record, explicit overrides, then the calendar-derived and
// environment-derived fields. Any missing or undecodable fragment is fatal;
// no partial set is returned.
func (m *Merger) BuildVariables(ctx context.Context, clusterRoot, overrides string) (VariableSet, error) {
	logger := ctxlog.FromContext(ctx)

	vars, err := m.loadBaseLayer(ctx, clusterRoot)
	if err != nil {
		return nil, err
	}

	applyOverrides(vars, overrides)

	if _, ok := vars[VarCurrDate]; !ok {
		vars[VarCurrDate] = currentDate(m.now)
	}

	if err := m.applyCalendar(ctx, vars); err != nil {
		return nil, err
	}

	m.applyEnvironment(vars)

	logger.Debug("Variable set built.", "family", m.family.Type, "keys", len(vars))
	return vars, nil
}

// loadBaseLayer loads the family's base variables. Colony families start
// from the cluster-wide colony fragment and embed the monitoring host's
// record; the monitoring family starts from its own mon fragment, which is
// the dependency of everything else and embeds nothing.
func (m *Merger) loadBaseLayer(ctx context.Context, clusterRoot string) (VariableSet, error) {
	if !m.family.ColonyScoped {
		return m.store.Load(ctx, filepath.Join(clusterRoot, "mon."+m.family.Ext))
	}

	colonyPath := filepath.Join(clusterRoot, "all", "colony."+m.family.Ext)
	vars, err := m.store.Load(ctx, colonyPath)
	if err != nil {
		return nil, err
	}

	monID, ok := vars.StringField(keyMonNodeID)
	if !ok {
		return nil, &fragment.MissingKeyError{Path: colonyPath, Key: keyMonNodeID}
	}
	if m.family.RequiresColonyNum {
		if _, ok := vars.StringField(keyColonyNum); !ok {
			return nil, &fragment.MissingKeyError{Path: colonyPath, Key: keyColonyNum}
		}
	}
	monHost, err := m.MonHostRecord(ctx, monID)
	if err != nil {
		return nil, fmt.Errorf("resolving monitoring host %s: %w", monID, err)
	}
	vars[VarMonHost] = monHost
	return vars, nil
}

// MonHostRecord resolves the monitoring host's own fully materialized
// record: its mon fragment merged with its global host fragment, host
// fields winning. The record has no pending references back to any
// dependent cluster.
func (m *Merger) MonHostRecord(ctx context.Context, monID string) (HostRecord, error) {
	monRoot := m.settings.FamilyStorageDir(string(cluster.Monitor))
	monPath := filepath.Join(monRoot, "config", monID, "mon."+m.family.Ext)
	monVars, err := m.store.Load(ctx, monPath)
	if err != nil {
		return nil, err
	}

	hostID, ok := monVars.StringField(keyHostID)
	if !ok {
		return nil, &fragment.MissingKeyError{Path: monPath, Key: keyHostID}
	}
	host, err := m.store.Load(ctx, m.settings.HostFragmentPath(hostID, m.family.Ext))
	if err != nil {
		return nil, err
	}
	return fragment.Overlay(monVars, host), nil
}

// applyOverrides merges a ";"-separated list of key=value pairs into vars.
// Only the first "=" splits key from value; entries without "=" are
// ignored; keys and values are trimmed.
func applyOverrides(vars VariableSet, overrides string) {
	if overrides == "" {
		return
	}
	for _, item := range strings.Split(overrides, ";") {
		key, value, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

// applyCalendar resolves the trading-date fields against the family's
// calendar document. next_trd_date and pre_trd_date respect values an
// earlier layer supplied; is_trading_day is recomputed unconditionally
// because it is a derived fact, not configuration.
func (m *Merger) applyCalendar(ctx context.Context, vars VariableSet) error {
	colonyNum, _ := vars.StringField(keyColonyNum)
	docPath, ok := m.family.CalendarDocPath(colonyNum)
	if !ok {
		// The monitoring family carries no trading-date fields.
		return nil
	}

	doc, err := m.store.Load(ctx, docPath)
	if err != nil {
		return err
	}
	table, err := calendar.TableFromDocument(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", docPath, err)
	}
	resolver := calendar.NewResolver(table)

	currStr, _ := vars.StringField(VarCurrDate)
	currDate, err := strconv.Atoi(currStr)
	if err != nil {
		return fmt.Errorf("%w: curr_date %q", calendar.ErrInvalidDate, currStr)
	}

	if _, ok := vars[VarNextTrdDate]; !ok {
		next, err := resolver.NextTradingDay(currDate)
		if err != nil {
			return err
		}
		vars[VarNextTrdDate] = strconv.Itoa(next)
	}
	if _, ok := vars[VarPreTrdDate]; !ok {
		prev, err := resolver.PreviousTradingDay(currDate)
		if err != nil {
			return err
		}
		vars[VarPreTrdDate] = strconv.Itoa(prev)
	}

	trading, err := resolver.IsTradingDay(currDate)
	if err != nil {
		return err
	}
	vars[VarIsTradingDay] = trading
	return nil
}

// applyEnvironment injects the execution-environment fields. These describe
// the run itself rather than business configuration and are never subject
// to override precedence.
func (m *Merger) applyEnvironment(vars VariableSet) {
	vars["JOBS_RECORD_ID"] = m.settings.RecordID
	vars["JOBS_LOG_PATH"] = m.settings.LogPath
	vars["local_path_script_home"] = m.family.ScriptHome
	vars["local_path_playbook_home"] = m.family.PlaybookHome
	vars[m.family.HomeVarKey] = m.family.StorageDir
	vars["local_python_interpreter"] = m.settings.Interpreter
}

// BuildHosts builds the per-node host map of one cluster. For each
// recognized node-role directory the node fragment is merged with its
// referenced global host fragment, host fields winning on collision, and
// inserted under the synthesized inventory name. A declared node whose host
// fragment is missing is fatal: a deployment must not silently omit a real
// node.
func (m *Merger) BuildHosts(ctx context.Context, clusterID, clusterRoot string) (map[string]HostRecord, error) {
	logger := ctxlog.FromContext(ctx)
	hosts := make(map[string]HostRecord)

	if !m.family.ColonyScoped {
		// Single-host monitoring deployment: the mon fragment names its
		// own host.
		monVars, err := m.store.Load(ctx, filepath.Join(clusterRoot, "mon."+m.family.Ext))
		if err != nil {
			return nil, err
		}
		hostID, ok := monVars.StringField(keyHostID)
		if !ok {
			return nil, &fragment.MissingKeyError{Path: filepath.Join(clusterRoot, "mon."+m.family.Ext), Key: keyHostID}
		}
		host, err := m.store.Load(ctx, m.settings.HostFragmentPath(hostID, m.family.Ext))
		if err != nil {
			return nil, err
		}
		hosts[m.family.HostKey(clusterID, "")] = host
		return hosts, nil
	}

	nodeDirs, err := m.store.NodeDirs(ctx, clusterRoot)
	if err != nil {
		return nil, err
	}
	for _, dir := range nodeDirs {
		nodePath := filepath.Join(dir, "node."+m.family.Ext)
		node, err := m.store.Load(ctx, nodePath)
		if err != nil {
			return nil, err
		}
		hostID, ok := node.StringField(keyHostID)
		if !ok {
			return nil, &fragment.MissingKeyError{Path: nodePath, Key: keyHostID}
		}
		role, ok := node.StringField(keyNodeRole)
		if !ok {
			return nil, &fragment.MissingKeyError{Path: nodePath, Key: keyNodeRole}
		}
		host, err := m.store.Load(ctx, m.settings.HostFragmentPath(hostID, m.family.Ext))
		if err != nil {
			return nil, err
		}
		hosts[m.family.HostKey(clusterID, role)] = fragment.Overlay(node, host)
	}

	logger.Debug("Host map built.", "family", m.family.Type, "cluster_id", clusterID, "hosts", len(hosts))
	return hosts, nil
}
