// Package testutil provides shared test helpers for setting up sync targets
// and files directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SyncDir creates a temporary sync target directory seeded with one note
// file per given identifier, so allocators under test treat those ids as
// already taken.
func SyncDir(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		if err := os.WriteFile(filepath.Join(dir, id+".md"), []byte("seeded\n\nid: "+id), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// FilesDir creates a temporary files directory populated with the given
// attachment files.
func FilesDir(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
