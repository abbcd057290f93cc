package cache

import (
	"errors"
	"fmt"
)

// ErrNotCached indicates no usable entry exists for a key. Corrupt
// stored bytes report the same way: a failed integrity check means
// the entry is as good as absent and a fresh fetch is required.
var ErrNotCached = errors.New("not cached")

// ErrNotModified is returned by a Fetcher when the remote content
// still matches the version the caller already holds.
var ErrNotModified = errors.New("not modified")

// UnavailableError indicates a resource could be served neither from
// the network nor from the cache. Callers surface it to the user as
// an offline notice with a retry path, never as a crash.
type UnavailableError struct {
	Key string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("resource %q unavailable: no network and no cached copy: %v", e.Key, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
