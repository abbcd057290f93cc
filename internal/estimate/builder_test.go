package estimate

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amsfield/pricebook/internal/catalog"
)

var (
	kitGood   = catalog.Package{ID: "A1", Name: "Kit", Price: 10000, Tier: catalog.TierGood, Family: "kit"}
	kitBetter = catalog.Package{ID: "A2", Name: "Kit", Price: 15000, Tier: catalog.TierBetter, Family: "kit"}
	panelBest = catalog.Package{ID: "P9", Name: "Panel", Price: 240000, Tier: catalog.TierBest, Family: "panel"}
)

func TestSelectReplacesWithinFamily(t *testing.T) {
	b := NewBuilder()
	b.Select(kitGood)
	b.Select(kitBetter)

	items := b.Items()
	if len(items) != 1 {
		t.Fatalf("got %d selections for one family, want 1", len(items))
	}
	if items[0].ID != "A2" {
		t.Errorf("got %q, want the second selection A2", items[0].ID)
	}
}

func TestSelectAcrossFamilies(t *testing.T) {
	b := NewBuilder()
	b.Select(kitGood)
	b.Select(panelBest)

	if len(b.Items()) != 2 {
		t.Fatalf("selections across families must not replace each other")
	}
	if b.Total() != 250000 {
		t.Errorf("Total = %d, want 250000", b.Total())
	}
}

func TestDeselect(t *testing.T) {
	b := NewBuilder()
	b.Select(kitGood)

	// Deselecting a different variant of the same family is a no-op.
	b.Deselect(kitBetter)
	if len(b.Items()) != 1 {
		t.Fatal("deselecting a non-selected variant must not clear the family")
	}

	b.Deselect(kitGood)
	if len(b.Items()) != 0 {
		t.Fatal("selection not removed")
	}

	// And again: no-op, no panic.
	b.Deselect(kitGood)
}

func TestQuoteText(t *testing.T) {
	b := NewBuilder()
	if b.QuoteText() != "" {
		t.Error("empty estimate must yield an empty string")
	}

	b.Select(panelBest)
	b.Select(kitGood)

	// Deterministic ordering by family key: kit before panel.
	if got, want := b.QuoteText(), "A1\nP9"; got != want {
		t.Errorf("QuoteText() = %q, want %q", got, want)
	}
}

func TestClearIdempotent(t *testing.T) {
	b := NewBuilder()
	b.Select(kitGood)
	b.Clear()
	b.Clear()
	if len(b.Items()) != 0 || b.QuoteText() != "" {
		t.Error("Clear did not reset the estimate")
	}
}

// ----------------------------------------------------------------------------
// Registry Tests
// ----------------------------------------------------------------------------

func TestRegistrySessionsAreIsolated(t *testing.T) {
	r := NewRegistry(time.Hour)
	a := r.Create()
	b := r.Create()

	ba, _ := r.Get(a)
	ba.Select(kitGood)

	bb, _ := r.Get(b)
	if len(bb.Items()) != 0 {
		t.Error("sessions must not share selections")
	}
}

func TestRegistryUnknownSession(t *testing.T) {
	r := NewRegistry(time.Hour)
	if _, ok := r.Get(uuid.New()); ok {
		t.Error("unknown session must not resolve")
	}
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(time.Hour)
	id := r.Create()

	clock := time.Now()
	r.now = func() time.Time { return clock.Add(2 * time.Hour) }

	if _, ok := r.Get(id); ok {
		t.Error("expired session must be pruned")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", r.Len())
	}
}
