package frame

import (
	"fmt"
	"slices"
)

// Column is a single named vector of values with its own row labels.
// A Column is immutable; every transforming method returns a new Column.
type Column struct {
	name   string
	dtype  DType
	values []Value
	labels *Labels
}

// NewColumn creates a column with an inferred dtype and default range labels.
func NewColumn(name string, values []Value) *Column {
	return &Column{
		name:   name,
		dtype:  InferDType(values),
		values: normalizeNulls(values),
		labels: RangeLabels(len(values)),
	}
}

// NewTypedColumn creates a column with an explicit dtype.
// Returns ErrCast if a value does not conform to dtype.
func NewTypedColumn(name string, dtype DType, values []Value) (*Column, error) {
	for i, v := range values {
		if !dtype.conforms(v) {
			return nil, fmt.Errorf("%w: row %d (%T) in %s column %q", ErrCast, i, v, dtype, name)
		}
	}
	return &Column{
		name:   name,
		dtype:  dtype,
		values: normalizeNulls(values),
		labels: RangeLabels(len(values)),
	}, nil
}

// NewNullColumn creates an object column of n nulls.
func NewNullColumn(name string, n int) *Column {
	values := make([]Value, n)
	for i := range values {
		values[i] = Null{}
	}
	return &Column{name: name, dtype: DTypeObject, values: values, labels: RangeLabels(n)}
}

func normalizeNulls(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		if IsNull(v) {
			out[i] = Null{}
			continue
		}
		out[i] = v
	}
	return out
}

// Kind implements Subject.
func (c *Column) Kind() Kind { return KindColumn }

func (*Column) subject() {}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// DType returns the declared value type.
func (c *Column) DType() DType { return c.dtype }

// Len returns the number of entries.
func (c *Column) Len() int { return len(c.values) }

// At returns the i-th entry.
func (c *Column) At(i int) Value { return c.values[i] }

// Values returns a copy of the entries.
func (c *Column) Values() []Value { return slices.Clone(c.values) }

// Labels returns the column's row labels.
func (c *Column) Labels() *Labels { return c.labels }

// WithLabels returns a copy of the column indexed by labels.
// Returns ErrLength if the lengths differ.
func (c *Column) WithLabels(labels *Labels) (*Column, error) {
	if labels.Len() != len(c.values) {
		return nil, fmt.Errorf("%w: %d labels for %d values", ErrLength, labels.Len(), len(c.values))
	}
	return &Column{name: c.name, dtype: c.dtype, values: c.values, labels: labels}, nil
}

// Rename returns a copy of the column with a new name.
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, dtype: c.dtype, values: c.values, labels: c.labels}
}

// IsNull marks each null entry.
func (c *Column) IsNull() []bool {
	out := make([]bool, len(c.values))
	for i, v := range c.values {
		out[i] = IsNull(v)
	}
	return out
}

// HasNulls reports whether any entry is null.
func (c *Column) HasNulls() bool { return slices.ContainsFunc(c.values, IsNull) }

// Duplicated marks each entry that repeats an earlier one.
func (c *Column) Duplicated() []bool { return duplicated(c.values) }

// IsUnique reports whether no entry repeats.
func (c *Column) IsUnique() bool { return !slices.Contains(c.Duplicated(), true) }

// DropDuplicates keeps the first occurrence of each value, dropping the
// matching row labels with the later duplicates.
func (c *Column) DropDuplicates() *Column {
	dup := c.Duplicated()
	keep := make([]bool, len(dup))
	out := make([]Value, 0, len(c.values))
	for i, v := range c.values {
		if !dup[i] {
			keep[i] = true
			out = append(out, v)
		}
	}
	return &Column{name: c.name, dtype: c.dtype, values: out, labels: c.labels.take(keep)}
}

// Map returns a new column with fn applied to every entry. The dtype is
// kept when every result conforms to it, otherwise it is re-inferred.
func (c *Column) Map(fn func(Value) Value) *Column {
	out := make([]Value, len(c.values))
	conforming := true
	for i, v := range c.values {
		out[i] = fn(v)
		if IsNull(out[i]) {
			out[i] = Null{}
		}
		if !c.dtype.conforms(out[i]) {
			conforming = false
		}
	}
	dtype := c.dtype
	if !conforming {
		dtype = InferDType(out)
	}
	return &Column{name: c.name, dtype: dtype, values: out, labels: c.labels}
}

// Cast converts every entry to dtype. Fails with ErrCast on the first entry
// that cannot be represented; the receiver is never partially converted.
func (c *Column) Cast(dtype DType) (*Column, error) {
	out := make([]Value, len(c.values))
	for i, v := range c.values {
		cv, err := castValue(v, dtype)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", c.name, i, err)
		}
		out[i] = cv
	}
	return &Column{name: c.name, dtype: dtype, values: out, labels: c.labels}, nil
}

// Equal reports whether both columns share name, dtype, values, and labels.
func (c *Column) Equal(other *Column) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.name == other.name &&
		c.dtype == other.dtype &&
		valuesEqual(c.values, other.values) &&
		c.labels.Equal(other.labels)
}
