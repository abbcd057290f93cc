// Package estimate accumulates selected packages into a quote.
//
// An estimate is session-scoped and in-memory only: created empty,
// mutated by technician taps, cleared on export or reset, never
// persisted. Tier-aware selection is enforced here, not left to
// callers: a family holds at most one selected variant.
package estimate

import (
	"sort"
	"strings"
	"sync"

	"github.com/amsfield/pricebook/internal/catalog"
)

// Builder holds one session's selections, at most one package per
// family. Safe for concurrent use by handlers sharing a session.
type Builder struct {
	mu        sync.Mutex
	selection map[string]catalog.Package // family key -> chosen variant
}

func NewBuilder() *Builder {
	return &Builder{selection: make(map[string]catalog.Package)}
}

// Select adds a package to the estimate. If its family already has a
// selection, the previous one is replaced; switching tiers is a
// single tap, not a deselect-then-select dance.
func (b *Builder) Select(p catalog.Package) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection[p.FamilyKey()] = p
}

// Deselect removes the package if it is the current selection for its
// family; otherwise it is a no-op. A different variant of the same
// family stays selected.
func (b *Builder) Deselect(p catalog.Package) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := p.FamilyKey()
	if cur, ok := b.selection[key]; ok && cur.ID == p.ID {
		delete(b.selection, key)
	}
}

// Clear resets the estimate to empty. Idempotent.
func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = make(map[string]catalog.Package)
}

// Items returns the current selections in deterministic order:
// by family key, then tier rank.
func (b *Builder) Items() []catalog.Package {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]catalog.Package, 0, len(b.selection))
	for _, p := range b.selection {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		fi, fj := out[i].FamilyKey(), out[j].FamilyKey()
		if fi != fj {
			return fi < fj
		}
		return out[i].Tier.Rank() < out[j].Tier.Rank()
	})
	return out
}

// Total sums the selected prices in minor units.
func (b *Builder) Total() int64 {
	var total int64
	for _, p := range b.Items() {
		total += p.Price
	}
	return total
}

// QuoteText renders the clipboard export: one package identifier per
// line, no extra whitespace, in Items order. The external CRM's
// search expects exactly this shape. An empty estimate yields an
// empty string.
func (b *Builder) QuoteText() string {
	items := b.Items()
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return strings.Join(ids, "\n")
}
