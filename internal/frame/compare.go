package frame

import (
	"cmp"
	"slices"
)

// rank orders value kinds: bool < number < string < null.
func rank(v Value) int {
	if IsNull(v) {
		return 3
	}
	switch v.(type) {
	case Bool:
		return 0
	case Int, Float:
		return 1
	default:
		return 2
	}
}

// Compare defines a total order over Values.
// Bools sort before numbers, numbers before strings, and nulls sort last.
// Int and Float compare numerically.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 0:
		return cmp.Compare(boolInt(a.(Bool)), boolInt(b.(Bool)))
	case 1:
		// Int vs Int stays exact beyond 2^53.
		ai, aok := a.(Int)
		bi, bok := b.(Int)
		if aok && bok {
			return cmp.Compare(ai, bi)
		}
		af, _ := Numeric(a)
		bf, _ := Numeric(b)
		return cmp.Compare(af, bf)
	case 2:
		return cmp.Compare(a.(String), b.(String))
	default:
		return 0
	}
}

func boolInt(b Bool) int {
	if b {
		return 1
	}
	return 0
}

func isSorted(values []Value, dir int) bool {
	for i := 1; i < len(values); i++ {
		if Compare(values[i-1], values[i])*dir > 0 {
			return false
		}
	}
	return true
}

func sortedCopy(values []Value) []Value {
	out := slices.Clone(values)
	slices.SortStableFunc(out, Compare)
	return out
}
