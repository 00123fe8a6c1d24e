package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "f.yaml")
	require.NoError(t, os.WriteFile(file, []byte("a: 1\n"), 0o600))

	assert.True(t, DirExists(root))
	assert.False(t, DirExists(file))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(root))
	assert.False(t, FileExists(filepath.Join(root, "absent")))
}

func TestSubdirNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"host_01", "host_02", "backup"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "host_03"), []byte("a file, not a dir"), 0o600))

	names, err := SubdirNames(root, "host_01", "host_02", "host_03")
	require.NoError(t, err)
	assert.Equal(t, []string{"host_01", "host_02"}, names)

	_, err = SubdirNames(filepath.Join(root, "absent"), "host_01")
	require.Error(t, err)
}
