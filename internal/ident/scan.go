package ident

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scan walks the sync target directory and collects every identifier already
// in use. Any file whose base name (one extension stripped) is a valid
// identifier counts, so flat note layouts, resource payloads, and sharded
// sub-layouts are all covered without assuming one of them.
//
// The result is an immutable startup snapshot; callers must not re-scan
// mid-run.
func Scan(root string) (Set, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("ident: stat sync target: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ident: sync target is not a directory: %s", root)
	}

	out := Set{}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if IsID(base) {
			out.Add(base)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ident: scan sync target: %w", err)
	}
	return out, nil
}
