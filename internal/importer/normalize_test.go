package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/amsfield/pricebook/internal/catalog"
)

// ----------------------------------------------------------------------------
// ParsePrice Tests
// ----------------------------------------------------------------------------

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain integer", input: "100", want: 10000},
		{name: "decimal", input: "123.45", want: 12345},
		{name: "leading decimal point", input: ".99", want: 99},
		{name: "dollar sign and thousands", input: "$1,234.56", want: 123456},
		{name: "euro sign", input: "€1234.56", want: 123456},
		{name: "pound sign", input: "£1234.56", want: 123456},
		{name: "surrounding whitespace", input: "  42.00  ", want: 4200},
		{name: "sub-cent rounds", input: "10.005", want: 1001},
		{name: "zero", input: "0", want: 0},
		{name: "empty", input: "", wantErr: true},
		{name: "non-numeric", input: "call for pricing", wantErr: true},
		{name: "negative", input: "-50", wantErr: true},
		{name: "accounting negative", input: "(123.45)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrice(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Categorize Tests
// ----------------------------------------------------------------------------

func TestCategorize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AMSFL_INSTALL PANEL UPGRADE 200A", "Panel Upgrades"},
		{"INSTALL SURGE PROTECTOR", "Surge Protection"},
		{"EV CHARGER CIRCUIT 50A", "EV Charging"},
		{"240V CKT FOR DRYER", "Heavy Duty Circuits"},
		{"OUTLET WP EXTERIOR", "Exterior Outlets"},
		{"RCAN 6IN RETROFIT", "Recessed Lighting"},
		{"DIMMER SWITCH SINGLE POLE", "Outlets & Switches"},
		{"22KW GENERATOR W/ ATS", "Home Generators"},
		{"GFCI RECEPTACLE KITCHEN", "GFCI Protection"},
		{"SOMETHING UNRECOGNIZED", "Other Services"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Categorize(tt.input); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Normalize Tests
// ----------------------------------------------------------------------------

func normalizeOne(t *testing.T, header []string, cells []string) (catalog.Package, error) {
	t.Helper()
	idx, err := MapHeader(header)
	if err != nil {
		t.Fatalf("MapHeader failed: %v", err)
	}
	return Normalize(idx, RawRow{Line: 2, Cells: cells})
}

func TestNormalize(t *testing.T) {
	header := []string{"Internal ID", "Name", "Sales Price", "Labor Hours", "Description", "Tier"}

	p, err := normalizeOne(t, header,
		[]string{" 101 ", "AMSFL_INSTALL SURGE PROTECTOR", "$450.00", "2.5", "Whole-home surge protection", ""})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if p.ID != "101" {
		t.Errorf("ID = %q, want trimmed 101", p.ID)
	}
	if p.DisplayName != "SURGE PROTECTOR" {
		t.Errorf("DisplayName = %q, want CRM prefixes stripped", p.DisplayName)
	}
	if p.Price != 45000 {
		t.Errorf("Price = %d, want 45000 minor units", p.Price)
	}
	if p.LaborHours != 2.5 {
		t.Errorf("LaborHours = %v, want 2.5", p.LaborHours)
	}
	if p.Category != "Surge Protection" {
		t.Errorf("Category = %q, want classified from name", p.Category)
	}
	if p.Tier != catalog.TierUnassigned {
		t.Errorf("Tier = %q, want default unassigned", p.Tier)
	}
}

func TestNormalizeRowErrors(t *testing.T) {
	header := []string{"ID", "Name", "Price"}

	_, err := normalizeOne(t, header, []string{"", "Kit", "100"})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("missing id: got %v, want *FormatError", err)
	}

	_, err = normalizeOne(t, header, []string{"A1", "Kit", "n/a"})
	var pe *PriceFormatError
	if !errors.As(err, &pe) {
		t.Errorf("bad price: got %v, want *PriceFormatError", err)
	}

	// Zero-priced rows are placeholders and never enter the catalog.
	_, err = normalizeOne(t, header, []string{"A1", "Kit", "0.00"})
	if !errors.As(err, &fe) {
		t.Errorf("zero price: got %v, want *FormatError", err)
	}
}

// ----------------------------------------------------------------------------
// Header and CSV Parsing Tests
// ----------------------------------------------------------------------------

func TestMapHeaderMissingRequired(t *testing.T) {
	_, err := MapHeader([]string{"Name", "Description"})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *FormatError for missing columns", err)
	}
}

func TestMapHeaderNetSuiteVariants(t *testing.T) {
	idx, err := MapHeader([]string{"Internal ID", "Name", "Base Sales Price", "Show On Mobile?", "Extra Junk"})
	if err != nil {
		t.Fatalf("MapHeader failed: %v", err)
	}
	for key, want := range map[string]int{colID: 0, colName: 1, colPrice: 2, colShowMobile: 3} {
		if got, ok := idx[key]; !ok || got != want {
			t.Errorf("column %q mapped to %d (found %v), want %d", key, got, ok, want)
		}
	}
}

func TestParseCSV(t *testing.T) {
	input := "\xef\xbb\xbfID,Name,Price\nA1,Kit,100\n\nA2,Kit,150\n"
	table, warnings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if table.Header[0] != "ID" {
		t.Errorf("BOM not skipped: header[0] = %q", table.Header[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank line dropped by csv reader)", len(table.Rows))
	}
}

func TestParseCSVNoDataRows(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("ID,Name,Price\n"))
	var ee *EmptyImportError
	if !errors.As(err, &ee) {
		t.Fatalf("got %v, want *EmptyImportError", err)
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *FormatError for missing header", err)
	}
}
