package catalog

import (
	"sort"
	"strings"
)

// Search returns packages whose name, display name, category, or
// description contains the query, case-insensitively. An empty query
// returns the full catalog in original load order.
func (c *Catalog) Search(query string) []Package {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Package, len(c.Packages))
		copy(out, c.Packages)
		return out
	}

	var out []Package
	for _, p := range c.Packages {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.DisplayName), query) ||
			strings.Contains(strings.ToLower(p.Category), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			out = append(out, p)
		}
	}
	return out
}

// ByID returns the package with the given ID.
func (c *Catalog) ByID(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// ByCategory returns packages in the named category, exact match,
// in load order.
func (c *Catalog) ByCategory(name string) []Package {
	var out []Package
	for _, p := range c.Packages {
		if p.Category == name {
			out = append(out, p)
		}
	}
	return out
}

// CategorySummary is the browse view of one category: its packages
// sorted by ascending price, the cheapest price as "starting at", and
// an icon name for the UI.
type CategorySummary struct {
	Name       string    `json:"name"`
	StartingAt int64     `json:"startingAt"`
	Icon       string    `json:"icon"`
	Packages   []Package `json:"packages"`
}

// Categories groups the catalog for browsing: categories sorted by
// name, packages within each sorted by price.
func (c *Catalog) Categories() []CategorySummary {
	byName := make(map[string][]Package)
	for _, p := range c.Packages {
		cat := p.Category
		if cat == "" {
			cat = "Other Services"
		}
		byName[cat] = append(byName[cat], p)
	}

	out := make([]CategorySummary, 0, len(byName))
	for name, pkgs := range byName {
		sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].Price < pkgs[j].Price })
		out = append(out, CategorySummary{
			Name:       name,
			StartingAt: pkgs[0].Price,
			Icon:       CategoryIcon(name),
			Packages:   pkgs,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TierFamily holds the tier variants of one underlying job. At most
// one package per assigned tier; packages still awaiting assignment
// collect under Unassigned.
type TierFamily struct {
	Good       *Package  `json:"good,omitempty"`
	Better     *Package  `json:"better,omitempty"`
	Best       *Package  `json:"best,omitempty"`
	Unassigned []Package `json:"unassigned,omitempty"`
}

// TierFamilies groups packages by family key. Two packages claiming
// the same assigned tier within one family is a *SchemaError.
func (c *Catalog) TierFamilies() (map[string]TierFamily, error) {
	out := make(map[string]TierFamily)
	for i := range c.Packages {
		p := c.Packages[i]
		key := p.FamilyKey()
		fam := out[key]

		var slot **Package
		switch p.Tier {
		case TierGood:
			slot = &fam.Good
		case TierBetter:
			slot = &fam.Better
		case TierBest:
			slot = &fam.Best
		default:
			fam.Unassigned = append(fam.Unassigned, p)
			out[key] = fam
			continue
		}

		if *slot != nil {
			return nil, &SchemaError{
				PackageID: p.ID,
				Reason:    "duplicate " + string(p.Tier) + " tier in family " + key,
			}
		}
		*slot = &c.Packages[i]
		out[key] = fam
	}
	return out, nil
}

// categoryIcons maps category names to UI icon identifiers.
var categoryIcons = map[string]string{
	"Panel Upgrades":      "zap",
	"Surge Protection":    "shield",
	"EV Charging":         "battery-charging",
	"Hot Tub Circuits":    "droplet",
	"Heavy Duty Circuits": "plug",
	"Exterior Outlets":    "sun",
	"Exterior Lighting":   "sun",
	"Recessed Lighting":   "circle",
	"LED Tape Lighting":   "minus",
	"Outlets & Switches":  "toggle-right",
	"Interior Lighting":   "lamp",
	"Ceiling Fans":        "wind",
	"Bathrooms":           "droplet",
	"Home Generators":     "power",
	"Portable Generator":  "battery",
	"HVAC Circuits":       "thermometer",
	"Safety Devices":      "alert-circle",
	"GFCI Protection":     "shield",
	"Breakers":            "square",
}

// CategoryIcon returns the icon identifier for a category, falling
// back to the generic package icon.
func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}
	return "package"
}
