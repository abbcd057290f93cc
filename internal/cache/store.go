// Package cache keeps field devices working without a network.
//
// Each resource key moves through a small state machine: uncached,
// cached at some version, then refreshed when a newer version shows
// up. Reads are network-first with cached fallback: a live fetch is
// always attempted once, and the stored copy answers only when the
// network cannot. There is no eviction beyond replace-on-update; the
// working set is one catalog file plus a handful of static assets.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one cached resource: raw content plus the version marker
// used for staleness decisions.
type Entry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"-"`
	Version   string    `json:"version"`
	Checksum  string    `json:"checksum"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Store persists cache entries. Implementations must return
// ErrNotCached (possibly wrapped) for both absent and corrupt
// entries.
type Store interface {
	Get(key string) (Entry, error)
	Put(e Entry) error
}

// FileStore writes each entry as a content file plus a JSON metadata
// sidecar under one directory. It is the only writer of that
// directory; a mutex serializes access within the process.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get loads an entry and verifies its content checksum. A mismatch
// between the stored bytes and the recorded checksum means the entry
// is corrupt and reports as ErrNotCached so the caller refetches.
func (s *FileStore) Get(key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e Entry
	meta, err := os.ReadFile(s.path(key) + ".meta.json")
	if os.IsNotExist(err) {
		return Entry{}, ErrNotCached
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read cache meta for %q: %w", key, err)
	}
	if err := json.Unmarshal(meta, &e); err != nil {
		return Entry{}, fmt.Errorf("%w: unreadable metadata for %q", ErrNotCached, key)
	}

	value, err := os.ReadFile(s.path(key))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: missing content for %q", ErrNotCached, key)
	}
	if sum := contentSum(value); sum != e.Checksum {
		return Entry{}, fmt.Errorf("%w: corrupt content for %q", ErrNotCached, key)
	}
	e.Value = value
	return e, nil
}

// Put replaces the entry for a key, content file first so a crash
// between the two writes leaves a checksum mismatch rather than a
// silently wrong version.
func (s *FileStore) Put(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Checksum = contentSum(e.Value)
	if err := writeFileAtomic(s.path(e.Key), e.Value, 0o600); err != nil {
		return fmt.Errorf("write cache content for %q: %w", e.Key, err)
	}
	meta, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path(e.Key)+".meta.json", meta, 0o600); err != nil {
		return fmt.Errorf("write cache meta for %q: %w", e.Key, err)
	}
	return nil
}

// path maps a resource key to a flat filename; separators in keys
// like "data/pricebook.json" must not create subdirectories.
func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "__", "\\", "__", "..", "_").Replace(key)
	return filepath.Join(s.dir, safe)
}

func contentSum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// writeFileAtomic writes via a temp file, then renames over the target.
func writeFileAtomic(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
