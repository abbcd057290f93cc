// Package catalog provides the in-memory price-book model.
//
// A Catalog is an immutable snapshot of every Package offered to
// customers, stamped with a version marker and a content checksum.
// Updates never mutate a published Catalog; a new snapshot is built
// and swapped in through a Store. This keeps readers and the offline
// cache free to compare old and new snapshots by version alone.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Tier classifies a Package within its family.
type Tier string

const (
	TierGood       Tier = "good"
	TierBetter     Tier = "better"
	TierBest       Tier = "best"
	TierUnassigned Tier = "unassigned"
)

// Rank returns the display ordering for tier variants within a
// family: Good, Better, Best, then Unassigned.
func (t Tier) Rank() int {
	switch t {
	case TierGood:
		return 0
	case TierBetter:
		return 1
	case TierBest:
		return 2
	default:
		return 3
	}
}

// ParseTier normalizes a tier label. Empty input and unknown labels
// map to TierUnassigned so CRM exports with blank tier columns load
// without error.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good":
		return TierGood
	case "better":
		return TierBetter
	case "best":
		return TierBest
	default:
		return TierUnassigned
	}
}

// Assigned reports whether the tier is one of Good, Better, or Best.
func (t Tier) Assigned() bool {
	return t == TierGood || t == TierBetter || t == TierBest
}

// UnmarshalJSON accepts null and arbitrary-case labels, defaulting to
// TierUnassigned. CRM exports predate tier assignment and publish null.
func (t *Tier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TierUnassigned
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTier(s)
	return nil
}

// Package is a single priced, tiered service offered to a customer.
// Price is in currency minor units (cents) to avoid floating error.
type Package struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	LaborHours  float64  `json:"laborHours,omitempty"`
	Tier        Tier     `json:"tier"`
	Family      string   `json:"family,omitempty"`
	Upsells     []string `json:"upsells,omitempty"`
}

// FamilyKey returns the grouping key for Good/Better/Best variants of
// the same underlying job. An explicit Family field wins; otherwise
// the key is derived from the package name with any trailing tier
// label stripped, so "Panel Upgrade - Good" and "Panel Upgrade - Best"
// land in the same family.
func (p Package) FamilyKey() string {
	if f := strings.TrimSpace(p.Family); f != "" {
		return strings.ToLower(f)
	}
	name := strings.ToLower(strings.TrimSpace(p.Name))
	for _, suffix := range []string{"good", "better", "best"} {
		trimmed := strings.TrimSuffix(name, suffix)
		if trimmed == name {
			continue
		}
		return strings.TrimRight(trimmed, " -–:")
	}
	return name
}

// Label returns the customer-facing name, preferring DisplayName.
func (p Package) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// Catalog is an immutable snapshot of all Packages plus its version
// marker. Checksum is the hex SHA-256 of the package list and doubles
// as the HTTP ETag when the catalog is served to devices.
type Catalog struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	Checksum    string    `json:"checksum,omitempty"`
	Packages    []Package `json:"packages"`
}

// Checksum computes the content checksum for a package list.
// The result depends only on the packages, not on the version marker,
// so re-importing identical data produces an identical checksum.
func Checksum(pkgs []Package) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range pkgs {
		// Encoding cannot fail for these field types.
		_ = enc.Encode(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
