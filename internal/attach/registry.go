// Package attach parses the attach-directory configuration used in file link
// mode and manages the primary write target.
package attach

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrConfigFormat marks a config line that is not exactly
	// "linkName,directoryPath" with both halves non-empty.
	ErrConfigFormat = errors.New("malformed attach config line")

	// ErrDuplicateLinkName marks two entries sharing a link name.
	ErrDuplicateLinkName = errors.New("duplicate link name")

	// ErrMissingConfig marks a missing or empty attach config while file
	// link mode is in effect.
	ErrMissingConfig = errors.New("attach config not found")

	// ErrDirectoryCreation marks a failure to create the primary directory.
	ErrDirectoryCreation = errors.New("cannot create attach directory")
)

// Entry is one (link name, directory path) pair. Link names identify the
// same sync target on different machines; only the first entry's directory
// is written by a run, the rest exist for manual link substitution elsewhere.
type Entry struct {
	LinkName string
	Dir      string
}

// Registry is the ordered, immutable set of attach directories for a run.
type Registry struct {
	entries []Entry
}

// Load reads an attach config file: one "linkName,directoryPath" per line,
// blank lines and #-comments skipped. A missing file, or a file with no
// usable lines, yields ErrMissingConfig.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("attach: %w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("attach: open config: %w", err)
	}
	defer f.Close()

	reg, err := parse(f)
	if err != nil {
		return nil, err
	}
	if len(reg.entries) == 0 {
		return nil, fmt.Errorf("attach: %w: no entries in %s", ErrMissingConfig, path)
	}
	return reg, nil
}

func parse(r io.Reader) (*Registry, error) {
	reg := &Registry{}
	seen := map[string]struct{}{}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Count(line, ",") != 1 {
			return nil, fmt.Errorf("attach: line %d: %w: %q", lineNo, ErrConfigFormat, line)
		}
		name, dir, _ := strings.Cut(line, ",")
		name = strings.TrimSpace(name)
		dir = strings.TrimSpace(dir)
		if name == "" || dir == "" {
			return nil, fmt.Errorf("attach: line %d: %w: %q", lineNo, ErrConfigFormat, line)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("attach: line %d: %w: %q", lineNo, ErrDuplicateLinkName, name)
		}
		seen[name] = struct{}{}
		reg.entries = append(reg.entries, Entry{LinkName: name, Dir: dir})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("attach: read config: %w", err)
	}
	return reg, nil
}

// Entries returns the configured entries in file order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Primary returns the first entry, the active write target for this run.
func (r *Registry) Primary() Entry {
	return r.entries[0]
}

// EnsurePrimary creates the primary directory, intermediate segments
// included, if it does not already exist.
func (r *Registry) EnsurePrimary() error {
	dir := r.Primary().Dir
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("attach: %w: %s exists and is not a directory", ErrDirectoryCreation, dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("attach: %w: %s: %v", ErrDirectoryCreation, dir, err)
	}
	return nil
}
