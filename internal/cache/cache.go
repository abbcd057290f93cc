package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Result is a served resource plus where it came from. FromCache is
// informational: a cached answer during an outage is a success, not
// an error, and the UI uses the flag only to show an offline notice.
type Result struct {
	Entry     Entry
	FromCache bool
}

// Cache mediates resource reads: network-first with cached fallback.
type Cache struct {
	store   Store
	fetcher Fetcher

	// Serializes state transitions: concurrent requests for the same
	// key must not corrupt the entry; last writer wins.
	mu sync.Mutex
}

func New(store Store, fetcher Fetcher) *Cache {
	return &Cache{store: store, fetcher: fetcher}
}

// Get serves a resource, making exactly one network attempt.
//
//   - Nothing cached, fetch succeeds: store and serve the fresh copy.
//   - Nothing cached, fetch fails: *UnavailableError.
//   - Cached, fetch returns the same version (or ErrNotModified): the
//     stored bytes are left untouched and served as-is.
//   - Cached, fetch returns a different version: store, then serve
//     fresh. Exception: when both versions carry an orderable
//     timestamp and the response is the OLDER one, it is a late
//     arrival from a superseded request; discard it and serve the
//     cached copy. Versions without an order (content checksums from
//     ETag-less hosting) always count as an update.
//   - Cached, fetch fails: serve the cached copy, flagged FromCache.
//     The failure stays below the API surface; a log line is all.
func (c *Cache) Get(ctx context.Context, key string) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, err := c.store.Get(key)
	haveCached := err == nil
	if err != nil && !errors.Is(err, ErrNotCached) {
		// Unreadable storage is the same as having nothing cached:
		// fall through to a fresh network attempt.
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	var cachedVersion string
	if haveCached {
		cachedVersion = cached.Version
	}

	fresh, err := c.fetcher.Fetch(ctx, key, cachedVersion)
	switch {
	case err == nil:
		if haveCached && fresh.Version == cached.Version {
			// No change upstream: no spurious overwrite, the cached
			// bytes stay byte-identical.
			return Result{Entry: cached, FromCache: true}, nil
		}
		if haveCached && olderVersion(fresh.Version, cached.Version) {
			slog.Warn("discarding stale response",
				"key", key, "response_version", fresh.Version, "cached_version", cached.Version)
			return Result{Entry: cached, FromCache: true}, nil
		}
		if putErr := c.store.Put(fresh); putErr != nil {
			// Serving the fresh copy still succeeds; only persistence
			// for the next offline read failed.
			slog.Warn("cache write failed", "key", key, "error", putErr)
		}
		return Result{Entry: fresh, FromCache: false}, nil

	case errors.Is(err, ErrNotModified):
		if !haveCached {
			return Result{}, &UnavailableError{Key: key, Err: err}
		}
		return Result{Entry: cached, FromCache: true}, nil

	default:
		if !haveCached {
			return Result{}, &UnavailableError{Key: key, Err: err}
		}
		slog.Debug("network fetch failed, serving cached copy", "key", key, "error", err)
		return Result{Entry: cached, FromCache: true}, nil
	}
}

// olderVersion reports whether fresh is strictly older than cached.
// Only versions with a timestamp prefix order at all; catalog markers
// look like "2026-01-05T00:00:00Z#ab12cd34". Checksum-style versions
// have no order, so a mismatch between them is never stale.
func olderVersion(fresh, cached string) bool {
	ft, ok := versionTime(fresh)
	if !ok {
		return false
	}
	ct, ok := versionTime(cached)
	if !ok {
		return false
	}
	return ft.Before(ct)
}

func versionTime(v string) (time.Time, bool) {
	prefix, _, _ := strings.Cut(v, "#")
	t, err := time.Parse(time.RFC3339, prefix)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
