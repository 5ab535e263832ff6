package frame

import (
	"math"
	"strconv"
)

// Value is a sealed interface representing a single cell or label.
// Only Null, Int, Float, String, and Bool implement it.
type Value interface {
	frameValue() // Sealed - only these types implement it
}

// Null represents a missing entry.
type Null struct{}

func (Null) frameValue() {}

// Int represents a 64-bit integer entry.
type Int int64

func (Int) frameValue() {}

// Float represents a 64-bit float entry. NaN is treated as null.
type Float float64

func (Float) frameValue() {}

// String represents a text entry.
type String string

func (String) frameValue() {}

// Bool represents a boolean entry.
type Bool bool

func (Bool) frameValue() {}

// IsNull reports whether v is a missing entry (Null, a nil Value, or NaN).
func IsNull(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return true
	case Float:
		return math.IsNaN(float64(val))
	default:
		return false
	}
}

// Numeric returns the numeric value of v.
// Only Int and non-NaN Float are numeric; Bool is not.
func Numeric(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		if math.IsNaN(float64(val)) {
			return 0, false
		}
		return float64(val), true
	default:
		return 0, false
	}
}

// Values converts Go primitives into Values. Supported inputs are nil, int,
// int64, float64, string, and bool; anything else panics. Intended for
// building fixtures.
func Values(items ...any) []Value {
	out := make([]Value, len(items))
	for i, item := range items {
		switch val := item.(type) {
		case nil:
			out[i] = Null{}
		case Value:
			out[i] = val
		case int:
			out[i] = Int(val)
		case int64:
			out[i] = Int(val)
		case float64:
			out[i] = Float(val)
		case string:
			out[i] = String(val)
		case bool:
			out[i] = Bool(val)
		default:
			panic("frame.Values: unsupported type")
		}
	}
	return out
}

// Format renders v as text. Null renders as the empty string.
func Format(v Value) string {
	switch val := v.(type) {
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		if math.IsNaN(float64(val)) {
			return ""
		}
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case String:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return ""
	}
}

// valueKey is a comparable identity for duplicate detection.
// Int(1) and Float(1) share a key, and all nulls share a key.
type valueKey struct {
	kind uint8
	i    int64
	f    float64
	s    string
}

func keyOf(v Value) valueKey {
	if IsNull(v) {
		return valueKey{kind: 0}
	}
	switch val := v.(type) {
	case Bool:
		if val {
			return valueKey{kind: 1, i: 1}
		}
		return valueKey{kind: 1}
	case Int:
		return valueKey{kind: 2, i: int64(val)}
	case Float:
		f := float64(val)
		if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return valueKey{kind: 2, i: int64(f)}
		}
		return valueKey{kind: 3, f: f}
	case String:
		return valueKey{kind: 4, s: string(val)}
	}
	return valueKey{kind: 0}
}

// duplicated marks every entry that repeats an earlier one.
func duplicated(values []Value) []bool {
	seen := make(map[valueKey]struct{}, len(values))
	out := make([]bool, len(values))
	for i, v := range values {
		k := keyOf(v)
		if _, ok := seen[k]; ok {
			out[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return out
}
