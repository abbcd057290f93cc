// Package importer converts tabular CRM exports into catalog
// snapshots.
//
// The pipeline is a pure transform: parse the export into rows,
// normalize each row into a package, classify and tier the result,
// and build an immutable catalog. Row-level problems are collected as
// warnings alongside the partial result; only a table with no usable
// rows at all fails outright.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one data row of the export, 1-indexed by source line for
// user-facing warnings.
type RawRow struct {
	Line  int
	Cells []string
}

// RawTable is a parsed export: a header row plus data rows. Cell
// content is untouched beyond parsing; normalization happens later.
type RawTable struct {
	Header []string
	Rows   []RawRow
}

// ParseCSV reads a CSV export into a RawTable. A UTF-8 BOM is
// skipped. Rows the CSV parser rejects are recorded as warnings and
// dropped rather than failing the import; a file with no header row
// or no data rows at all is a fatal error.
func ParseCSV(r io.Reader) (RawTable, []Warning, error) {
	reader := csv.NewReader(newBOMSkippingReader(r))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var (
		table    RawTable
		warnings []Warning
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			warnings = append(warnings, Warning{Line: line, Reason: fmt.Sprintf("unparseable row: %v", err)})
			continue
		}
		line, _ := reader.FieldPos(0)
		if table.Header == nil {
			table.Header = record
			continue
		}
		table.Rows = append(table.Rows, RawRow{Line: line, Cells: record})
	}

	if len(table.Header) == 0 {
		return RawTable{}, warnings, &FormatError{Reason: "no header row found"}
	}
	if len(table.Rows) == 0 {
		return RawTable{}, warnings, &EmptyImportError{}
	}
	return table, warnings, nil
}

// ParseXLSX reads the first sheet of an Excel export into a RawTable.
// CRM systems commonly hand out spreadsheet exports alongside CSV.
func ParseXLSX(r io.Reader) (RawTable, []Warning, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return RawTable{}, nil, &FormatError{Reason: fmt.Sprintf("open spreadsheet: %v", err)}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return RawTable{}, nil, &FormatError{Reason: fmt.Sprintf("read sheet %q: %v", sheet, err)}
	}
	if len(rows) == 0 {
		return RawTable{}, nil, &FormatError{Reason: "no header row found"}
	}
	if len(rows) < 2 {
		return RawTable{}, nil, &EmptyImportError{}
	}

	table := RawTable{Header: rows[0]}
	for i, cells := range rows[1:] {
		table.Rows = append(table.Rows, RawRow{Line: i + 2, Cells: cells})
	}
	return table, nil, nil
}

// bomSkippingReader strips a leading UTF-8 BOM (0xEF 0xBB 0xBF).
// Windows tools routinely prepend one to CSV exports.
type bomSkippingReader struct {
	r       io.Reader
	checked bool
	pending []byte
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{r: r}
}

func (b *bomSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		buf := make([]byte, 3)
		n, err := io.ReadFull(b.r, buf)
		switch {
		case err == nil && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF:
			// BOM consumed.
		case err == nil || errors.Is(err, io.ErrUnexpectedEOF):
			b.pending = buf[:n]
		case errors.Is(err, io.EOF):
			return 0, io.EOF
		default:
			return 0, err
		}
	}
	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// Recognized columns. Matching is case-insensitive and tolerant of
// the NetSuite export header variants ("Internal ID", "Sales Price",
// "Labor Hours", "Show On Mobile"). Extra columns are ignored.
const (
	colID          = "id"
	colName        = "name"
	colPrice       = "price"
	colHours       = "hours"
	colDescription = "description"
	colCategory    = "category"
	colTier        = "tier"
	colFamily      = "family"
	colShowMobile  = "show_mobile"
)

type columnSpec struct {
	key      string
	required bool
	match    func(header string) bool
}

func headerContains(substrs ...string) func(string) bool {
	return func(h string) bool {
		for _, s := range substrs {
			if strings.Contains(h, s) {
				return true
			}
		}
		return false
	}
}

func headerEquals(names ...string) func(string) bool {
	return func(h string) bool {
		for _, n := range names {
			if h == n {
				return true
			}
		}
		return false
	}
}

var columnSpecs = []columnSpec{
	{key: colID, required: true, match: headerEquals("id", "internal id")},
	{key: colName, required: true, match: headerEquals("name", "package name", "item name")},
	{key: colPrice, required: true, match: headerContains("sales price", "price")},
	{key: colHours, match: headerContains("labor hours")},
	{key: colDescription, match: headerContains("description")},
	{key: colCategory, match: headerEquals("category")},
	{key: colTier, match: headerEquals("tier")},
	{key: colFamily, match: headerEquals("family", "group", "package group")},
	{key: colShowMobile, match: headerContains("show on mobile")},
}

// MapHeader resolves the table header to column positions. Missing a
// required column (identifier, name, price) is a fatal *FormatError:
// no row could be normalized without it.
func MapHeader(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columnSpecs))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, spec := range columnSpecs {
			if _, taken := idx[spec.key]; taken {
				continue
			}
			if spec.match(h) {
				idx[spec.key] = i
				break
			}
		}
	}
	for _, spec := range columnSpecs {
		if !spec.required {
			continue
		}
		if _, ok := idx[spec.key]; !ok {
			return nil, &FormatError{Reason: fmt.Sprintf("missing required column %q", spec.key)}
		}
	}
	return idx, nil
}

// cell returns the trimmed value of a mapped column for one row, or
// "" when the column is absent or the row is too short.
func cell(idx map[string]int, row RawRow, key string) string {
	pos, ok := idx[key]
	if !ok || pos >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[pos])
}
