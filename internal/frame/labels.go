package frame

import "slices"

// Labels is an ordered label sequence used to index rows.
//
// Names holds one entry per level; an unnamed single level is [""].
// Labels values are treated as immutable except for names, which SetNames
// overwrites in place.
type Labels struct {
	values []Value
	names  []string
}

// NewLabels creates a label sequence. With no names the sequence has a
// single unnamed level.
func NewLabels(values []Value, names ...string) *Labels {
	if len(names) == 0 {
		names = []string{""}
	}
	return &Labels{
		values: slices.Clone(values),
		names:  slices.Clone(names),
	}
}

// RangeLabels creates the default 0..n-1 row labels.
func RangeLabels(n int) *Labels {
	values := make([]Value, n)
	for i := range values {
		values[i] = Int(i)
	}
	return &Labels{values: values, names: []string{""}}
}

// Kind implements Subject.
func (l *Labels) Kind() Kind { return KindLabels }

func (*Labels) subject() {}

// Len returns the number of labels.
func (l *Labels) Len() int { return len(l.values) }

// At returns the i-th label.
func (l *Labels) At(i int) Value { return l.values[i] }

// Values returns a copy of the labels.
func (l *Labels) Values() []Value { return slices.Clone(l.values) }

// Names returns a copy of the per-level names.
func (l *Labels) Names() []string { return slices.Clone(l.names) }

// SetNames overwrites the per-level names in place.
//
// This is the only mutating operation on any subject. Callers holding the
// same *Labels observe the change; it must not race with readers.
func (l *Labels) SetNames(names []string) {
	l.names = slices.Clone(names)
}

// Duplicated marks each label that repeats an earlier one.
func (l *Labels) Duplicated() []bool { return duplicated(l.values) }

// IsUnique reports whether no label repeats.
func (l *Labels) IsUnique() bool { return !slices.Contains(l.Duplicated(), true) }

// IsMonotonicIncreasing reports whether labels never decrease under Compare.
func (l *Labels) IsMonotonicIncreasing() bool { return isSorted(l.values, 1) }

// IsMonotonicDecreasing reports whether labels never increase under Compare.
func (l *Labels) IsMonotonicDecreasing() bool { return isSorted(l.values, -1) }

// DropDuplicates returns a new sequence keeping the first occurrence of each
// label. Names are kept.
func (l *Labels) DropDuplicates() *Labels {
	dup := l.Duplicated()
	out := make([]Value, 0, len(l.values))
	for i, v := range l.values {
		if !dup[i] {
			out = append(out, v)
		}
	}
	return &Labels{values: out, names: slices.Clone(l.names)}
}

// SortAscending returns a new sequence sorted under Compare, nulls last.
func (l *Labels) SortAscending() *Labels {
	return &Labels{values: sortedCopy(l.values), names: slices.Clone(l.names)}
}

// Map returns a new sequence with fn applied to every label.
func (l *Labels) Map(fn func(Value) Value) *Labels {
	out := make([]Value, len(l.values))
	for i, v := range l.values {
		out[i] = fn(v)
	}
	return &Labels{values: out, names: slices.Clone(l.names)}
}

// take returns the labels at the given positions.
func (l *Labels) take(keep []bool) *Labels {
	out := make([]Value, 0, len(l.values))
	for i, v := range l.values {
		if keep[i] {
			out = append(out, v)
		}
	}
	return &Labels{values: out, names: slices.Clone(l.names)}
}

// Equal reports whether both sequences hold the same labels and names.
func (l *Labels) Equal(other *Labels) bool {
	if l == nil || other == nil {
		return l == other
	}
	return slices.Equal(l.names, other.names) && valuesEqual(l.values, other.values)
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if keyOf(a[i]) != keyOf(b[i]) {
			return false
		}
	}
	return true
}
