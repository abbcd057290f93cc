package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load reads and validates a catalog snapshot from JSON.
//
// It returns a *ParseError when the source is not well-formed JSON and
// a *SchemaError when the data violates a catalog invariant: missing
// id or name, negative price, duplicate id, a stored checksum that
// does not match the content, or duplicate tier variants within a
// family. A successful load always carries a checksum, computing one
// when the source omitted it.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads a catalog snapshot from a file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// SaveFile writes the catalog snapshot to path as indented JSON. The
// write goes through a temp file and rename so a crash mid-write never
// leaves a truncated snapshot for the next Load.
func (c *Catalog) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pricebook-*")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace catalog %s: %w", path, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Packages))
	for i, p := range c.Packages {
		if p.ID == "" {
			return &SchemaError{Reason: fmt.Sprintf("entry %d has no id", i)}
		}
		if p.Name == "" {
			return &SchemaError{PackageID: p.ID, Reason: "missing name"}
		}
		if p.Price < 0 {
			return &SchemaError{PackageID: p.ID, Reason: fmt.Sprintf("negative price %d", p.Price)}
		}
		if seen[p.ID] {
			return &SchemaError{PackageID: p.ID, Reason: "duplicate id"}
		}
		seen[p.ID] = true
	}

	// Tier uniqueness within each family is part of the schema, not a
	// query-time concern: a catalog with two "Best" variants of the
	// same job must never be published.
	if _, err := c.TierFamilies(); err != nil {
		return err
	}

	sum := Checksum(c.Packages)
	if c.Checksum != "" && c.Checksum != sum {
		return &SchemaError{Reason: "checksum does not match content"}
	}
	c.Checksum = sum
	return nil
}
