package catalog

import "fmt"

// ParseError indicates the catalog source was not well-formed JSON.
// The whole load fails; there is no partial result.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates structurally invalid catalog data: a missing
// required field, a negative price, a duplicate identifier, or two
// packages claiming the same tier within one family. Schema errors are
// fatal for the whole load.
type SchemaError struct {
	PackageID string
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.PackageID == "" {
		return "catalog schema: " + e.Reason
	}
	return fmt.Sprintf("catalog schema: package %q: %s", e.PackageID, e.Reason)
}
