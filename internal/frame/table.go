package frame

import (
	"errors"
	"fmt"
	"slices"
)

// ErrLength is returned when a column or label sequence does not match the
// table's row count.
var ErrLength = errors.New("length mismatch")

// ErrNoColumn is returned when a named column does not exist.
var ErrNoColumn = errors.New("column not found")

// Table is an ordered set of named columns sharing one row label sequence.
// A Table is immutable; every transforming method returns a new Table that
// shares unchanged columns with the receiver.
type Table struct {
	columns []*Column // stored without labels
	index   map[string]int
	labels  *Labels
	rows    int
}

// NewTable creates a table from columns of equal length, indexed by the
// default range labels. Column labels are discarded.
func NewTable(columns ...*Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	return NewTableWithLabels(RangeLabels(rows), columns...)
}

// NewTableWithLabels creates a table indexed by labels.
func NewTableWithLabels(labels *Labels, columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		labels:  labels,
		rows:    labels.Len(),
	}
	for _, c := range columns {
		if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, table has %d", ErrLength, c.name, c.Len(), t.rows)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.name)
		}
		t.index[c.name] = len(t.columns)
		t.columns = append(t.columns, c.stripLabels())
	}
	return t, nil
}

// MustTable is NewTable that panics on error. Intended for fixtures.
func MustTable(columns ...*Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func (c *Column) stripLabels() *Column {
	return &Column{name: c.name, dtype: c.dtype, values: c.values}
}

// Kind implements Subject.
func (t *Table) Kind() Kind { return KindTable }

func (*Table) subject() {}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Labels returns the row label sequence.
func (t *Table) Labels() *Labels { return t.labels }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column indexed by the table's row labels.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	c := t.columns[i]
	return &Column{name: c.name, dtype: c.dtype, values: c.values, labels: t.labels}, true
}

// DTypes returns the dtype of every column by name.
func (t *Table) DTypes() map[string]DType {
	out := make(map[string]DType, len(t.columns))
	for _, c := range t.columns {
		out[c.name] = c.dtype
	}
	return out
}

// WithColumn assigns c under its name. An existing column keeps its
// position; a new one is appended. The column's labels are ignored.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if c.Len() != t.rows {
		return nil, fmt.Errorf("%w: column %q has %d rows, table has %d", ErrLength, c.name, c.Len(), t.rows)
	}
	out := t.clone()
	if i, ok := out.index[c.name]; ok {
		out.columns[i] = c.stripLabels()
		return out, nil
	}
	out.index[c.name] = len(out.columns)
	out.columns = append(out.columns, c.stripLabels())
	return out, nil
}

// WithLabels returns a copy of the table indexed by labels.
func (t *Table) WithLabels(labels *Labels) (*Table, error) {
	if labels.Len() != t.rows {
		return nil, fmt.Errorf("%w: %d labels for %d rows", ErrLength, labels.Len(), t.rows)
	}
	out := t.clone()
	out.labels = labels
	return out, nil
}

// Cast converts the named columns to their dtypes in one batch. If any
// column is missing or any entry cannot be cast, no column is converted and
// the error is returned.
func (t *Table) Cast(dtypes map[string]DType) (*Table, error) {
	names := make([]string, 0, len(dtypes))
	for name := range dtypes {
		names = append(names, name)
	}
	slices.Sort(names)

	cast := make([]*Column, 0, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
		}
		c, err := t.columns[i].Cast(dtypes[name])
		if err != nil {
			return nil, err
		}
		cast = append(cast, c)
	}

	out := t.clone()
	for _, c := range cast {
		out.columns[out.index[c.name]] = c
	}
	return out, nil
}

// Equal reports whether both tables hold the same columns in the same order
// and the same row labels.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.columns) != len(other.columns) || !t.labels.Equal(other.labels) {
		return false
	}
	for i, c := range t.columns {
		o := other.columns[i]
		if c.name != o.name || c.dtype != o.dtype || !valuesEqual(c.values, o.values) {
			return false
		}
	}
	return true
}

func (t *Table) clone() *Table {
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &Table{
		columns: slices.Clone(t.columns),
		index:   index,
		labels:  t.labels,
		rows:    t.rows,
	}
}
