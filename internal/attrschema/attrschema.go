// Package attrschema renders a Database's BA_DEF_ attribute
// dictionary as JSON and validates it against an embedded JSON
// Schema, the same embed+compile shape the teacher uses for its job
// and cluster config schemas.
package attrschema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reneherrero/godbc/pkg/dbc"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchemaFile(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	// "attrschemaFS://schemas/x.json" parses as host "schemas" and path
	// "/x.json"; the embedded file lives at "schemas/x.json".
	return schemaFiles.Open(u.Host + u.Path)
}

func init() {
	// url.Parse lowercases the scheme, so the loader key is lowercase.
	jsonschema.Loaders["attrschemafs"] = loadSchemaFile
}

// AttrEntry is the JSON-facing projection of one dbc.AttributeDefinition.
type AttrEntry struct {
	Name       string   `json:"name"`
	Target     string   `json:"target"`
	Type       string   `json:"type"`
	IntMin     int64    `json:"intMin,omitempty"`
	IntMax     int64    `json:"intMax,omitempty"`
	FloatMin   float64  `json:"floatMin,omitempty"`
	FloatMax   float64  `json:"floatMax,omitempty"`
	EnumLabels []string `json:"enumLabels,omitempty"`
}

// FromDatabase projects a Database's attribute definitions into the
// schema-validatable shape.
func FromDatabase(d *dbc.Database) []AttrEntry {
	defs := d.AttributeDefinitions()
	entries := make([]AttrEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, AttrEntry{
			Name:       def.Name,
			Target:     targetName(def.Target),
			Type:       typeName(def.ValueType),
			IntMin:     def.IntMin,
			IntMax:     def.IntMax,
			FloatMin:   def.FloatMin,
			FloatMax:   def.FloatMax,
			EnumLabels: def.EnumLabels,
		})
	}
	return entries
}

func targetName(k dbc.AttributeTargetKind) string {
	switch k {
	case dbc.AttrTargetNode:
		return "node"
	case dbc.AttrTargetMessage:
		return "message"
	case dbc.AttrTargetSignal:
		return "signal"
	default:
		return "database"
	}
}

func typeName(t dbc.AttributeValueType) string {
	switch t {
	case dbc.AttrInt:
		return "int"
	case dbc.AttrHex:
		return "hex"
	case dbc.AttrFloat:
		return "float"
	case dbc.AttrString:
		return "string"
	case dbc.AttrEnum:
		return "enum"
	default:
		return "int"
	}
}

// DumpJSON renders a Database's attribute dictionary as validated
// JSON. The marshal happens first so a schema violation is reported
// against the same bytes the caller would otherwise have emitted.
func DumpJSON(d *dbc.Database) ([]byte, error) {
	entries := FromDatabase(d)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("attrschema: marshaling attribute table: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Validate checks JSON bytes against the embedded attribute-table
// schema.
func Validate(data []byte) error {
	s, err := jsonschema.Compile("attrschemaFS://schemas/attrtable.schema.json")
	if err != nil {
		return fmt.Errorf("attrschema: compiling schema: %w", err)
	}
	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return fmt.Errorf("attrschema: decoding attribute table: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("attrschema: %w", err)
	}
	return nil
}
