package cache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// fakeFetcher scripts the network: either an entry, ErrNotModified,
// or a connection failure.
type fakeFetcher struct {
	entry Entry
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, key, cachedVersion string) (Entry, error) {
	f.calls++
	if f.err != nil {
		return Entry{}, f.err
	}
	if cachedVersion != "" && cachedVersion == f.entry.Version {
		return Entry{}, ErrNotModified
	}
	e := f.entry
	e.Key = key
	return e, nil
}

var errConnRefused = errors.New("dial tcp: connection refused")

func newTestCache(t *testing.T, f Fetcher) (*Cache, *FileStore) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return New(store, f), store
}

// ----------------------------------------------------------------------------
// State Machine Tests
// ----------------------------------------------------------------------------

func TestGetUncachedFetchesAndStores(t *testing.T) {
	f := &fakeFetcher{entry: Entry{Value: []byte("v1 content"), Version: "v1"}}
	c, store := newTestCache(t, f)

	res, err := c.Get(context.Background(), "data/pricebook.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.FromCache {
		t.Error("fresh fetch must not be flagged FromCache")
	}
	if string(res.Entry.Value) != "v1 content" {
		t.Errorf("got %q", res.Entry.Value)
	}

	stored, err := store.Get("data/pricebook.json")
	if err != nil {
		t.Fatalf("entry was not persisted: %v", err)
	}
	if stored.Version != "v1" {
		t.Errorf("stored version %q, want v1", stored.Version)
	}
}

func TestGetUncachedNetworkDownIsUnavailable(t *testing.T) {
	c, _ := newTestCache(t, &fakeFetcher{err: errConnRefused})

	_, err := c.Get(context.Background(), "data/pricebook.json")
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v, want *UnavailableError", err)
	}
	if !errors.Is(err, errConnRefused) {
		t.Error("UnavailableError must wrap the network error")
	}
}

func TestGetSameVersionDoesNotRewrite(t *testing.T) {
	f := &fakeFetcher{entry: Entry{Value: []byte("v1 content"), Version: "v1"}}
	c, store := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	before, _ := store.Get("k")

	res, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if !res.FromCache {
		t.Error("unchanged content must be served from cache")
	}

	after, _ := store.Get("k")
	if !bytes.Equal(before.Value, after.Value) {
		t.Error("cache value must be byte-identical when version is unchanged")
	}
	if before.FetchedAt != after.FetchedAt {
		t.Error("entry metadata rewritten despite unchanged version")
	}
}

func TestGetNewerVersionUpdates(t *testing.T) {
	f := &fakeFetcher{entry: Entry{Value: []byte("v1 content"), Version: "v1"}}
	c, _ := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("seed Get failed: %v", err)
	}

	f.entry = Entry{Value: []byte("v2 content"), Version: "v2"}
	res, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	if res.FromCache || string(res.Entry.Value) != "v2 content" {
		t.Errorf("got FromCache=%v value=%q, want fresh v2", res.FromCache, res.Entry.Value)
	}

	// Subsequent offline reads see version-2 content.
	f.err = errConnRefused
	res, err = c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("offline Get failed: %v", err)
	}
	if !res.FromCache || string(res.Entry.Value) != "v2 content" {
		t.Errorf("offline read: FromCache=%v value=%q, want cached v2", res.FromCache, res.Entry.Value)
	}
}

func TestGetStaleResponseDiscarded(t *testing.T) {
	f := &fakeFetcher{entry: Entry{
		Value:   []byte("newer content"),
		Version: "2026-02-01T00:00:00Z#bbbb2222",
	}}
	c, _ := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("seed Get failed: %v", err)
	}

	// A late response from a superseded request reports an older
	// timestamped version; the newer cached copy must survive.
	f.entry = Entry{
		Value:   []byte("older content"),
		Version: "2026-01-05T00:00:00Z#aaaa1111",
	}
	res, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(res.Entry.Value) != "newer content" {
		t.Errorf("stale response overwrote newer cache: got %q", res.Entry.Value)
	}
}

func TestGetChecksumVersionsAlwaysUpdate(t *testing.T) {
	// Upstream static hosting without ETags yields content-checksum
	// versions. Checksums carry no order, so a differing one must
	// never be mistaken for a late arrival, whichever way the strings
	// happen to compare.
	f := &fakeFetcher{entry: Entry{Value: []byte("old catalog"), Version: "ffff0000"}}
	c, store := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("seed Get failed: %v", err)
	}

	f.entry = Entry{Value: []byte("new catalog"), Version: "aaaa9999"}
	res, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.FromCache || string(res.Entry.Value) != "new catalog" {
		t.Fatalf("got FromCache=%v value=%q, want fresh new catalog", res.FromCache, res.Entry.Value)
	}

	stored, err := store.Get("k")
	if err != nil {
		t.Fatalf("store read failed: %v", err)
	}
	if stored.Version != "aaaa9999" || string(stored.Value) != "new catalog" {
		t.Errorf("stored version=%q value=%q, want the published update", stored.Version, stored.Value)
	}
}

func TestGetCorruptEntryRefetches(t *testing.T) {
	f := &fakeFetcher{entry: Entry{Value: []byte("good content"), Version: "v1"}}
	c, store := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("seed Get failed: %v", err)
	}

	// Flip bytes on disk behind the store's back.
	if err := os.WriteFile(store.path("k"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("k"); !errors.Is(err, ErrNotCached) {
		t.Fatalf("corrupt entry: got %v, want ErrNotCached", err)
	}

	res, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after corruption failed: %v", err)
	}
	if res.FromCache || string(res.Entry.Value) != "good content" {
		t.Errorf("corruption must trigger refetch, got FromCache=%v %q", res.FromCache, res.Entry.Value)
	}

	// Corrupt again with the network down: nothing usable remains.
	if err := os.WriteFile(store.path("k"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	f.err = errConnRefused
	_, err = c.Get(ctx, "k")
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v, want *UnavailableError", err)
	}
}

// ----------------------------------------------------------------------------
// FileStore Tests
// ----------------------------------------------------------------------------

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	put := Entry{Key: "data/pricebook.json", Value: []byte(`{"packages":[]}`), Version: "v7"}
	if err := store.Put(put); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("data/pricebook.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Version != "v7" || !bytes.Equal(got.Value, put.Value) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Keys with separators stay flat in the cache directory.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("key created subdirectory %q", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "data__pricebook.json")); err != nil {
		t.Errorf("expected flattened content file: %v", err)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotCached) {
		t.Fatalf("got %v, want ErrNotCached", err)
	}
}

// ----------------------------------------------------------------------------
// HTTPFetcher Tests
// ----------------------------------------------------------------------------

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/pricebook.json" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte("catalog bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL)
	ctx := context.Background()

	e, err := f.Fetch(ctx, "data/pricebook.json", "")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if e.Version != "v1" || string(e.Value) != "catalog bytes" {
		t.Errorf("got version=%q value=%q", e.Version, e.Value)
	}

	if _, err := f.Fetch(ctx, "data/pricebook.json", "v1"); !errors.Is(err, ErrNotModified) {
		t.Errorf("got %v, want ErrNotModified", err)
	}

	if _, err := f.Fetch(ctx, "missing.json", ""); err == nil {
		t.Error("404 must be an error")
	}
}
