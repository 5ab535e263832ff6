// Package decl loads contract declarations from CUE, YAML and TOML files,
// validates them and compiles them into a Plan of ready-to-run contracts.
//
// A declaration names one catalogue rule and its configuration:
//
//	contract: qty_positive: {
//		scope:  "column"
//		rule:   "positive"
//		column: "qty"
//	}
//
// Table and labels contracts apply to the whole table and to its row labels.
// Column contracts apply to the column named by the column field.
package decl

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
)

// Declaration is one contract as written in a declaration file.
type Declaration struct {
	Name    string            `json:"name" yaml:"name" toml:"name"`
	Scope   string            `json:"scope" yaml:"scope" toml:"scope"`
	Rule    string            `json:"rule" yaml:"rule" toml:"rule"`
	Column  string            `json:"column,omitempty" yaml:"column,omitempty" toml:"column,omitempty"`
	Columns []string          `json:"columns,omitempty" yaml:"columns,omitempty" toml:"columns,omitempty"`
	DTypes  map[string]string `json:"dtypes,omitempty" yaml:"dtypes,omitempty" toml:"dtypes,omitempty"`
	Names   []string          `json:"names,omitempty" yaml:"names,omitempty" toml:"names,omitempty"`

	// Repair overrides the rule's default repair policy when set.
	Repair *bool `json:"repair,omitempty" yaml:"repair,omitempty" toml:"repair,omitempty"`

	// Message overrides the rule's default diagnostic message when non-empty.
	Message string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`

	// Source is the file position the declaration was read from.
	Source string `json:"-" yaml:"-" toml:"-"`
}

// Bound is a validated declaration with its constructed contract.
type Bound struct {
	Declaration Declaration
	Evaluator   contract.Evaluator
}

// Target returns the column name for column-scope contracts and "" otherwise.
func (b Bound) Target() string {
	if b.Evaluator.Scope() == frame.KindColumn {
		return b.Declaration.Column
	}
	return ""
}

// Plan is an ordered set of bound contracts.
type Plan struct {
	// Source is the path the declarations were loaded from, if any.
	Source string

	Contracts []Bound
}

// Names returns the contract names in plan order.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Contracts))
	for i, b := range p.Contracts {
		names[i] = b.Declaration.Name
	}
	return names
}

// dtypes converts the validated declaration dtypes.
func (d Declaration) dtypes() (map[string]frame.DType, error) {
	if len(d.DTypes) == 0 {
		return nil, nil
	}
	out := make(map[string]frame.DType, len(d.DTypes))
	for _, col := range slices.Sorted(maps.Keys(d.DTypes)) {
		dt, err := frame.ParseDType(d.DTypes[col])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		out[col] = dt
	}
	return out, nil
}
