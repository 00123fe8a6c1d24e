// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
)

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SubdirNames returns the names of the immediate subdirectories of root whose
// names appear in the allowed set, in the order the directory lists them.
// Entries that are not directories or not in the set are skipped.
func SubdirNames(root string, allowed ...string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := allowedSet[entry.Name()]; ok {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
