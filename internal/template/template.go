package template

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docstruct/tably/internal/layout"
)

// FieldType tags a template column with the semantic treatment of its cells.
type FieldType string

const (
	// FieldText cells are emitted as joined token text.
	FieldText FieldType = "text"
	// FieldName cells additionally run through the fragmented-name
	// normalizer before being emitted.
	FieldName FieldType = "name"
)

// Column declares one output column of a form template: a stable key, an
// optional human label, the field type, and the page-fraction zone whose
// tokens feed the column.
type Column struct {
	Key   string      `yaml:"key" json:"key"`
	Label string      `yaml:"label,omitempty" json:"label,omitempty"`
	Type  FieldType   `yaml:"type" json:"type"`
	Zone  layout.Zone `yaml:"zone" json:"zone"`
}

// Template is a full zone layout for one form type. Column order is the
// output column order, left to right as authored.
type Template struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// ErrNoColumns indicates a template that declares no columns at all.
var ErrNoColumns = errors.New("template declares no columns")

// Parse reads a YAML template from r and validates it.
func Parse(r io.Reader) (*Template, error) {
	var t Template
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads and validates a YAML template file.
func Load(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	defer func() { _ = f.Close() }()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return t, nil
}

// Validate checks structural soundness: at least one column, unique keys,
// known field types, and zones inside the unit page. Overlapping zones are
// legal here; see Overlapping for the authoring-time warning.
func (t *Template) Validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		if c.Key == "" {
			return fmt.Errorf("column %d: empty key", i)
		}
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("column %d: duplicate key %q", i, c.Key)
		}
		seen[c.Key] = struct{}{}
		switch c.Type {
		case FieldText, FieldName:
		case "":
			return fmt.Errorf("column %q: missing field type", c.Key)
		default:
			return fmt.Errorf("column %q: unknown field type %q", c.Key, c.Type)
		}
		if err := validateZone(c.Zone); err != nil {
			return fmt.Errorf("column %q: %w", c.Key, err)
		}
	}
	return nil
}

func validateZone(z layout.Zone) error {
	if z.W <= 0 || z.H <= 0 {
		return fmt.Errorf("zone has non-positive size %gx%g", z.W, z.H)
	}
	if z.X < 0 || z.Y < 0 || z.X+z.W > 1 || z.Y+z.H > 1 {
		return fmt.Errorf("zone (%g,%g %gx%g) leaves the unit page", z.X, z.Y, z.W, z.H)
	}
	return nil
}

// Overlapping lists pairs of column keys whose zones share area. A token in
// the shared area lands in both columns, so authored templates should keep
// zones disjoint; the core does not resolve the ambiguity.
func (t *Template) Overlapping() [][2]string {
	var pairs [][2]string
	for i := range t.Columns {
		for j := i + 1; j < len(t.Columns); j++ {
			if t.Columns[i].Zone.Overlaps(t.Columns[j].Zone) {
				pairs = append(pairs, [2]string{t.Columns[i].Key, t.Columns[j].Key})
			}
		}
	}
	return pairs
}

// ZoneDefs converts the template's columns to the segmenter's zone list,
// preserving authored order.
func (t *Template) ZoneDefs() []layout.ZoneDef {
	defs := make([]layout.ZoneDef, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = layout.ZoneDef{Key: c.Key, Zone: c.Zone}
	}
	return defs
}

// NameColumns returns the set of column keys typed as personal names.
func (t *Template) NameColumns() map[string]bool {
	keys := make(map[string]bool)
	for _, c := range t.Columns {
		if c.Type == FieldName {
			keys[c.Key] = true
		}
	}
	return keys
}

// ColumnKeys returns the authored column key order.
func (t *Template) ColumnKeys() []string {
	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}
	return keys
}
