// Package fragment reads single configuration fragments from a directory
// tree and decodes them into flat records. Two encodings cover the two
// cluster families: a structured-document encoding (YAML) and a plain
// key/value encoding (JSON). Semantics are identical; one fragment in, one
// decoded record out. The package holds no merge logic.
package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/tradefleet/internal/ctxlog"
	"github.com/vk/tradefleet/internal/fsutil"
)

// NodeRoleDirs are the only node-role directory names a cluster tree may
// declare: primary, secondary and tertiary node slots. Any other
// subdirectory is ignored, since cluster trees hold unrelated artifacts
// alongside node configuration.
var NodeRoleDirs = []string{"host_01", "host_02", "host_03"}

// codec decodes one fragment's raw bytes into a record.
type codec func(data []byte, out *Record) error

// codecs maps a fragment file extension to its decoder.
var codecs = map[string]codec{
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".json": decodeJSON,
}

func decodeYAML(data []byte, out *Record) error {
	return yaml.Unmarshal(data, out)
}

func decodeJSON(data []byte, out *Record) error {
	return json.Unmarshal(data, out)
}

// Store is a read-only accessor over a configuration tree.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load decodes the fragment at path into a record. A missing path is a
// MissingFileError, an undecodable fragment a MalformedFileError.
func (s *Store) Load(ctx context.Context, path string) (Record, error) {
	logger := ctxlog.FromContext(ctx)

	decode, ok := codecs[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported fragment encoding: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("reading fragment %s: %w", path, err)
	}

	var record Record
	if err := decode(data, &record); err != nil {
		return nil, &MalformedFileError{Path: path, Err: err}
	}
	logger.Debug("Fragment decoded.", "path", path, "keys", len(record))
	return record, nil
}

// CheckDir verifies that path exists and is a directory, returning a
// MissingDirError otherwise.
func (s *Store) CheckDir(path string) error {
	if !fsutil.DirExists(path) {
		return &MissingDirError{Path: path}
	}
	return nil
}

// NodeDirs enumerates the recognized node-role subdirectories of
// clusterRoot, as absolute paths. Unrecognized entries are silently
// filtered, by contract.
func (s *Store) NodeDirs(ctx context.Context, clusterRoot string) ([]string, error) {
	names, err := fsutil.SubdirNames(clusterRoot, NodeRoleDirs...)
	if err != nil {
		return nil, fmt.Errorf("listing node directories under %s: %w", clusterRoot, err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(clusterRoot, name))
	}
	ctxlog.FromContext(ctx).Debug("Node directories listed.", "cluster_root", clusterRoot, "count", len(paths))
	return paths, nil
}
