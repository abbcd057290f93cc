package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves the live copy of a resource. cachedVersion is the
// version the caller already holds ("" when nothing is cached);
// implementations may answer ErrNotModified when the remote content
// still matches it.
type Fetcher interface {
	Fetch(ctx context.Context, key, cachedVersion string) (Entry, error)
}

// HTTPFetcher fetches resources from an upstream base URL, one
// request per call. The cached version travels as If-None-Match and a
// 304 maps to ErrNotModified, so an unchanged catalog costs no body
// transfer.
type HTTPFetcher struct {
	Base   string
	Client *http.Client
}

// NewHTTPFetcher uses a client with a modest timeout; the cache layer
// makes exactly one attempt per request, no retry storm.
func NewHTTPFetcher(base string) *HTTPFetcher {
	return &HTTPFetcher{
		Base:   base,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, key, cachedVersion string) (Entry, error) {
	u, err := url.JoinPath(f.Base, key)
	if err != nil {
		return Entry{}, fmt.Errorf("resolve %q against %q: %w", key, f.Base, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Entry{}, err
	}
	if cachedVersion != "" {
		req.Header.Set("If-None-Match", etag(cachedVersion))
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return Entry{}, ErrNotModified
	case resp.StatusCode != http.StatusOK:
		return Entry{}, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch %s: read body: %w", u, err)
	}

	version := strings.Trim(resp.Header.Get("ETag"), `"`)
	if version == "" {
		// Upstream static hosting without ETags: derive a version from
		// the content so staleness comparison still works.
		version = contentSum(body)
	}

	return Entry{
		Key:       key,
		Value:     body,
		Version:   version,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func etag(version string) string {
	return `"` + version + `"`
}
