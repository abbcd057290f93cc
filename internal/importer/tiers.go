package importer

import (
	"sort"

	"github.com/amsfield/pricebook/internal/catalog"
)

// Rules parameterizes tier assignment. The pipeline takes its rules
// explicitly; there is no hidden global configuration.
type Rules struct {
	// Overrides pins a tier for specific package IDs. An override
	// beats both the export's tier column and the price rule.
	Overrides map[string]catalog.Tier
}

// AssignTiers applies the tier rule to a package list and returns a
// new list; the input is not mutated.
//
// Precedence per package: admin override, then the export's own tier
// column. Families whose variants all remain unassigned get the price
// rule when and only when exactly three variants exist: ascending
// price maps to Good, Better, Best. Families with any other variant
// count stay Unassigned pending manual assignment; the source data
// gives no defensible rule for them.
func AssignTiers(pkgs []catalog.Package, rules Rules) []catalog.Package {
	out := make([]catalog.Package, len(pkgs))
	copy(out, pkgs)

	families := make(map[string][]int)
	for i := range out {
		if t, ok := rules.Overrides[out[i].ID]; ok {
			out[i].Tier = t
		}
		key := out[i].FamilyKey()
		families[key] = append(families[key], i)
	}

	for _, members := range families {
		if len(members) != 3 {
			continue
		}
		assigned := false
		for _, i := range members {
			if out[i].Tier.Assigned() {
				assigned = true
				break
			}
		}
		if assigned {
			continue
		}

		// Ties break by original row order: the sort is stable over
		// the member indices, which are already in input order.
		byPrice := append([]int(nil), members...)
		sort.SliceStable(byPrice, func(a, b int) bool {
			return out[byPrice[a]].Price < out[byPrice[b]].Price
		})
		out[byPrice[0]].Tier = catalog.TierGood
		out[byPrice[1]].Tier = catalog.TierBetter
		out[byPrice[2]].Tier = catalog.TierBest
	}

	return out
}
