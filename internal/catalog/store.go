package catalog

import "sync/atomic"

// Store holds the live catalog snapshot for the process lifetime.
//
// The snapshot is replaced wholesale on reload, never mutated, so
// in-flight readers keep the catalog they started with and never
// observe a half-updated one.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store holding the given initial snapshot.
// A nil initial catalog is allowed; Current returns an empty catalog
// until the first Replace.
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	if initial == nil {
		initial = &Catalog{}
	}
	s.current.Store(initial)
	return s
}

// Current returns the live snapshot. The result must be treated as
// read-only; it may be shared with any number of concurrent readers.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace atomically swaps in a new snapshot and returns the previous
// one.
func (s *Store) Replace(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
