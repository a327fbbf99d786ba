package index

import (
	"sync/atomic"
	"time"
)

// snapshot is one immutable generation of the index. A rebuild publishes a
// brand-new snapshot; nothing ever mutates a published one.
type snapshot struct {
	docs    []Document
	builtAt time.Time
}

// Store owns the resident index. The only shared mutable state is the
// snapshot pointer, replaced with a single atomic swap, so every reader
// observes exactly one complete generation and never a mix of two builds.
type Store struct {
	current atomic.Pointer[snapshot]
}

// NewStore returns an empty Store. Until the first successful build, reads
// see zero documents and a zero build time.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&snapshot{})
	return s
}

// Swap atomically replaces the resident index with a new generation.
// Callers must not modify docs after handing it over.
func (s *Store) Swap(docs []Document, builtAt time.Time) {
	s.current.Store(&snapshot{docs: docs, builtAt: builtAt})
}

// Snapshot returns the current generation's documents and build time as one
// consistent pair. The returned slice is shared and must be treated as
// read-only.
func (s *Store) Snapshot() ([]Document, time.Time) {
	snap := s.current.Load()
	return snap.docs, snap.builtAt
}

// Documents returns the current generation's document sequence.
func (s *Store) Documents() []Document {
	return s.current.Load().docs
}

// BuiltAt returns when the resident index was last successfully built, or
// the zero time if it never was.
func (s *Store) BuiltAt() time.Time {
	return s.current.Load().builtAt
}

// Len returns the number of resident documents.
func (s *Store) Len() int {
	return len(s.current.Load().docs)
}
