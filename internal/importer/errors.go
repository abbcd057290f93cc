package importer

import "fmt"

// FormatError indicates a row (or the table itself) could not be
// parsed: ragged columns, a missing required column, or an unreadable
// record. Row-level format errors are collected as warnings and the
// row skipped; a table with no usable header is fatal.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// PriceFormatError indicates a row carried a price that could not be
// converted to currency minor units. Recoverable: the row is skipped
// with a warning.
type PriceFormatError struct {
	Line  int
	Value string
}

func (e *PriceFormatError) Error() string {
	return fmt.Sprintf("line %d: invalid price %q", e.Line, e.Value)
}

// EmptyImportError indicates zero usable rows survived parsing and
// normalization. Fatal: there is nothing to build a catalog from.
type EmptyImportError struct{}

func (e *EmptyImportError) Error() string {
	return "import produced no usable rows"
}

// Warning records a recoverable problem with one input row. Warnings
// accompany a partial successful result; they are never silently
// dropped.
type Warning struct {
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
	}
	return w.Reason
}
