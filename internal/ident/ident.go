// Package ident allocates collision-free 32-character hexadecimal identifiers
// for notes and resources, checked against everything already present in the
// sync target.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// IDLength is the length of an identifier in hex characters.
const IDLength = 32

// maxRetries bounds consecutive collisions before Allocate gives up. Hitting
// it means the randomness source is broken, not that the space is full.
const maxRetries = 256

// ErrExhausted is returned when Allocate cannot find a free identifier.
var ErrExhausted = errors.New("ident: identifier space exhausted")

// Set is a collection of identifiers.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// IsID reports whether s is exactly 32 lowercase hex characters.
func IsID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Allocator issues unique identifiers for a single run. It is not safe for
// concurrent use; the run model is sequential.
type Allocator struct {
	existing  Set // snapshot of the sync target, read-only
	allocated Set // issued during this run
	src       io.Reader
}

// New creates an Allocator backed by crypto/rand over the given snapshot of
// identifiers already present in the sync target.
func New(existing Set) *Allocator {
	return NewWithSource(existing, rand.Reader)
}

// NewWithSource creates an Allocator with an explicit randomness source.
// Tests use this to force collisions or exhaustion.
func NewWithSource(existing Set, src io.Reader) *Allocator {
	if existing == nil {
		existing = Set{}
	}
	return &Allocator{
		existing:  existing,
		allocated: Set{},
		src:       src,
	}
}

// Allocate returns a fresh identifier that collides with nothing in the
// sync-target snapshot and nothing issued earlier in this run. The returned
// identifier is recorded before being handed out.
func (a *Allocator) Allocate() (string, error) {
	var buf [IDLength / 2]byte
	for i := 0; i < maxRetries; i++ {
		if _, err := io.ReadFull(a.src, buf[:]); err != nil {
			return "", fmt.Errorf("ident: read random bytes: %w", err)
		}
		id := hex.EncodeToString(buf[:])
		if a.existing.Has(id) || a.allocated.Has(id) {
			continue
		}
		a.allocated.Add(id)
		return id, nil
	}
	return "", ErrExhausted
}

// Allocated returns the number of identifiers issued so far this run.
func (a *Allocator) Allocated() int {
	return len(a.allocated)
}
