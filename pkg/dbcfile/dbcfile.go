// Package dbcfile provides thin, std-gated I/O wrappers around
// pkg/dbc so callers don't have to duplicate the read-then-parse
// boilerplate at every call site. It has no behavior of its own beyond
// that wiring: all parsing semantics live in pkg/dbc.
package dbcfile

import (
	"fmt"
	"io"
	"os"

	"github.com/reneherrero/godbc/pkg/dbc"
)

// Load reads and parses the DBC file at path.
func Load(path string) (*dbc.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dbcfile: reading %s: %w", path, err)
	}
	return dbc.ParseBytes(data)
}

// LoadReader parses a complete DBC source read from r. Unlike Load,
// it never touches the filesystem, which makes it the entry point for
// embedded fixtures and network-delivered sources alike.
func LoadReader(r io.Reader) (*dbc.Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dbcfile: reading: %w", err)
	}
	return dbc.ParseBytes(data)
}

// Save renders d to canonical DBC text and writes it to path.
func Save(path string, d *dbc.Database) error {
	if err := os.WriteFile(path, []byte(d.ToDBCString()), 0o644); err != nil {
		return fmt.Errorf("dbcfile: writing %s: %w", path, err)
	}
	return nil
}
