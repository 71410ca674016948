package device

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Capability describes the operating limits of a model.
type Capability struct {
	Model      Model `yaml:"-"`
	MaxDensity int   `yaml:"max_density"`
	MaxWidth   int   `yaml:"max_width"`
}

// Table maps models to their capabilities. A Table is never mutated after
// it is built.
type Table map[Model]Capability

// DefaultTable returns a fresh copy of the built-in capability table.
func DefaultTable() Table {
	return Table{
		ModelB1:   {Model: ModelB1, MaxDensity: 3, MaxWidth: 384},
		ModelB18:  {Model: ModelB18, MaxDensity: 3, MaxWidth: 384},
		ModelB21:  {Model: ModelB21, MaxDensity: 5, MaxWidth: 384},
		ModelD11:  {Model: ModelD11, MaxDensity: 3, MaxWidth: 96},
		ModelD110: {Model: ModelD110, MaxDensity: 3, MaxWidth: 96},
	}
}

// Lookup returns the capability for m.
func (t Table) Lookup(m Model) (Capability, bool) {
	c, ok := t[m]
	return c, ok
}

// LoadTable reads a YAML capability table of the form
//
//	b21:
//	  max_density: 5
//	  max_width: 384
//
// Model names are free-form so that tables can describe devices the
// built-in table does not know about, and are matched ignoring case. An
// empty document yields an empty table.
func LoadTable(r io.Reader) (Table, error) {
	var raw map[string]Capability
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("failed to decode capability table: %w", err)
	}

	table := make(Table, len(raw))
	for name, c := range raw {
		m := Model(strings.ToLower(strings.TrimSpace(name)))
		if m == ModelAuto || m == "" {
			return nil, fmt.Errorf("invalid model name %q in capability table", name)
		}
		if _, dup := table[m]; dup {
			return nil, fmt.Errorf("model %s listed twice in capability table", m)
		}
		if c.MaxDensity < 1 || c.MaxDensity > 5 {
			return nil, fmt.Errorf("model %s: max_density %d out of range 1-5", name, c.MaxDensity)
		}
		if c.MaxWidth <= 0 {
			return nil, fmt.Errorf("model %s: max_width must be positive", name)
		}
		c.Model = m
		table[m] = c
	}
	return table, nil
}

// Merge returns a new table holding t overlaid with override.
func (t Table) Merge(override Table) Table {
	merged := make(Table, len(t)+len(override))
	for m, c := range t {
		merged[m] = c
	}
	for m, c := range override {
		merged[m] = c
	}
	return merged
}
