package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amsfield/pricebook/internal/catalog"
)

// Build finishes the pipeline: deduplicates packages by identifier
// (the later row wins, with a warning per overwrite), stamps a fresh
// version marker, and returns the immutable catalog. Tier uniqueness
// within each family is re-checked here so a bad export can never
// publish; the resulting *catalog.SchemaError is fatal.
func Build(pkgs []catalog.Package) (*catalog.Catalog, []Warning, error) {
	var warnings []Warning

	position := make(map[string]int, len(pkgs))
	deduped := make([]catalog.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if at, seen := position[p.ID]; seen {
			warnings = append(warnings, Warning{
				Reason: fmt.Sprintf("duplicate id %q: later row overwrites earlier one", p.ID),
			})
			deduped[at] = p
			continue
		}
		position[p.ID] = len(deduped)
		deduped = append(deduped, p)
	}

	now := time.Now().UTC()
	c := &catalog.Catalog{
		Version:     fmt.Sprintf("%s#%s", now.Format(time.RFC3339), uuid.NewString()[:8]),
		GeneratedAt: now,
		Checksum:    catalog.Checksum(deduped),
		Packages:    deduped,
	}

	if _, err := c.TierFamilies(); err != nil {
		return nil, warnings, err
	}
	return c, warnings, nil
}

// Run executes the whole pipeline over a parsed table: map the
// header, normalize rows (skipping hidden and broken ones with
// warnings), assign tiers, and build the catalog.
//
// It fails with *FormatError when a required column is missing and
// with *EmptyImportError when no row survives normalization. All
// other row-level problems surface only through the returned
// warnings.
func Run(table RawTable, rules Rules) (*catalog.Catalog, []Warning, error) {
	idx, err := MapHeader(table.Header)
	if err != nil {
		return nil, nil, err
	}

	var (
		pkgs     []catalog.Package
		warnings []Warning
	)
	for _, row := range table.Rows {
		if rowEmpty(row) {
			continue
		}
		if hiddenFromMobile(idx, row) {
			warnings = append(warnings, Warning{Line: row.Line, Reason: "hidden from mobile, skipped"})
			continue
		}
		p, err := Normalize(idx, row)
		if err != nil {
			warnings = append(warnings, rowWarning(row, err))
			continue
		}
		pkgs = append(pkgs, p)
	}
	if len(pkgs) == 0 {
		return nil, warnings, &EmptyImportError{}
	}

	c, buildWarnings, err := Build(AssignTiers(pkgs, rules))
	warnings = append(warnings, buildWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	return c, warnings, nil
}

func rowEmpty(row RawRow) bool {
	for _, c := range row.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowWarning converts a row-level error into a Warning without
// repeating the line number the error text already carries.
func rowWarning(row RawRow, err error) Warning {
	var fe *FormatError
	if errors.As(err, &fe) {
		return Warning{Line: row.Line, Reason: fe.Reason}
	}
	var pe *PriceFormatError
	if errors.As(err, &pe) {
		return Warning{Line: row.Line, Reason: fmt.Sprintf("invalid price %q", pe.Value)}
	}
	return Warning{Line: row.Line, Reason: err.Error()}
}
