// Package raw writes the Joplin RAW import bundle: one Markdown unit per
// record, named by identifier, with resource payloads under resources/.
package raw

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirName is the bundle directory created inside the files directory.
const DirName = "joplin"

const resourcesDir = "resources"

// Bundle is the RAW output directory for one run.
type Bundle struct {
	root string // absolute path to the joplin/ directory
	now  string // single timestamp for every record written this run
}

// Create makes the bundle skeleton under filesDir. A pre-existing bundle is
// a fatal error: the user may not have imported the previous one yet, so it
// is never deleted or reused.
func Create(filesDir string) (*Bundle, error) {
	root, err := filepath.Abs(filepath.Join(filesDir, DirName))
	if err != nil {
		return nil, fmt.Errorf("raw: resolve bundle path: %w", err)
	}
	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("raw: %s already exists; import it if necessary, remove it, and run again", root)
	}
	if err := os.Mkdir(root, 0o755); err != nil {
		return nil, fmt.Errorf("raw: create bundle dir: %w", err)
	}
	if err := os.Mkdir(filepath.Join(root, resourcesDir), 0o755); err != nil {
		return nil, fmt.Errorf("raw: create resources dir: %w", err)
	}
	return &Bundle{root: root, now: Timestamp(time.Now())}, nil
}

// Root returns the absolute path of the bundle directory.
func (b *Bundle) Root() string {
	return b.root
}

// ResourcePath returns the absolute payload path for a resource file name.
func (b *Bundle) ResourcePath(name string) string {
	return filepath.Join(b.root, resourcesDir, name)
}

// Timestamp renders t in the format Joplin stores: UTC ISO-8601 truncated
// to milliseconds with a literal Z.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}

// write atomically persists a record unit: tmp file, fsync, rename.
func (b *Bundle) write(name string, content []byte) error {
	tmp, err := os.CreateTemp(b.root, ".ehwaz-tmp-*")
	if err != nil {
		return fmt.Errorf("raw: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("raw: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("raw: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("raw: close temp: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(b.root, name)); err != nil {
		return fmt.Errorf("raw: rename: %w", err)
	}
	success = true
	return nil
}
