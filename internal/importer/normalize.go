package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amsfield/pricebook/internal/catalog"
)

// crmPrefixRegex matches the CRM item-code prefixes that must not
// leak into customer-facing names.
var crmPrefixRegex = regexp.MustCompile(`^(AMSFL_|GENFL_)`)

// Normalize converts one raw row into a Package: whitespace trimmed,
// price coerced to minor units, tier defaulting to Unassigned, display
// name cleaned of CRM artifacts, and a category classified from the
// name when the export carries none.
//
// A missing identifier or name is a *FormatError, as is a zero
// price; an unparseable or negative price is a *PriceFormatError.
// All are row-level and recoverable by skip-and-warn.
func Normalize(idx map[string]int, row RawRow) (catalog.Package, error) {
	id := cell(idx, row, colID)
	if id == "" {
		return catalog.Package{}, &FormatError{Line: row.Line, Reason: "missing identifier"}
	}
	name := cell(idx, row, colName)
	if name == "" {
		return catalog.Package{}, &FormatError{Line: row.Line, Reason: "missing name"}
	}

	price, err := ParsePrice(cell(idx, row, colPrice))
	if err != nil {
		return catalog.Package{}, &PriceFormatError{Line: row.Line, Value: cell(idx, row, colPrice)}
	}
	if price == 0 {
		// Zero-priced CRM items are placeholders, not quotable work.
		return catalog.Package{}, &FormatError{Line: row.Line, Reason: "zero price, skipped"}
	}

	category := cell(idx, row, colCategory)
	if category == "" {
		category = Categorize(name)
	}

	return catalog.Package{
		ID:          id,
		Name:        name,
		DisplayName: cleanDisplayName(name),
		Category:    category,
		Description: cell(idx, row, colDescription),
		Price:       price,
		LaborHours:  parseHours(cell(idx, row, colHours)),
		Tier:        catalog.ParseTier(cell(idx, row, colTier)),
		Family:      cell(idx, row, colFamily),
	}, nil
}

// ParsePrice converts a CRM price string to currency minor units.
// It tolerates currency symbols, thousands separators, and the
// accounting negative format "(123.45)", rounding to the nearest
// cent. Empty, non-numeric, and negative results are errors: the
// price book never carries a package a technician cannot quote.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for _, sym := range []string{"$", "€", "£", ","} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)
	if negative {
		s = "-" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, strconv.ErrRange
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// parseHours converts the labor-hours column, treating anything
// unparseable as zero. Hours are advisory scheduling data, never a
// reason to reject a row.
func parseHours(s string) float64 {
	if s == "" {
		return 0
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h < 0 {
		return 0
	}
	return h
}

// cleanDisplayName strips CRM item-code prefixes and the leading
// "INSTALL" verb NetSuite puts on service items.
func cleanDisplayName(name string) string {
	out := crmPrefixRegex.ReplaceAllString(name, "")
	out = strings.ReplaceAll(out, "INSTALL ", "")
	return strings.TrimSpace(out)
}

// hiddenFromMobile reports whether the export marked this row as not
// shown on the field app. Such rows are skipped with a warning.
func hiddenFromMobile(idx map[string]int, row RawRow) bool {
	v := cell(idx, row, colShowMobile)
	return v != "" && strings.Contains(strings.ToLower(v), "no")
}
