package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DType is the declared value type of a column.
type DType string

const (
	DTypeInt64   DType = "int64"
	DTypeFloat64 DType = "float64"
	DTypeString  DType = "string"
	DTypeBool    DType = "bool"
	DTypeObject  DType = "object" // mixed or unknown
)

// ErrCast is returned when a value cannot be represented in a target dtype.
var ErrCast = errors.New("value not representable in target dtype")

// ParseDType maps a dtype name to a DType. Accepts the canonical names plus
// the common aliases int, float, str, and boolean.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int64", "int":
		return DTypeInt64, nil
	case "float64", "float":
		return DTypeFloat64, nil
	case "string", "str":
		return DTypeString, nil
	case "bool", "boolean":
		return DTypeBool, nil
	case "object":
		return DTypeObject, nil
	default:
		return "", fmt.Errorf("unknown dtype %q", s)
	}
}

// conforms reports whether a non-null value may be stored under dtype.
func (d DType) conforms(v Value) bool {
	if IsNull(v) {
		return true
	}
	switch d {
	case DTypeInt64:
		_, ok := v.(Int)
		return ok
	case DTypeFloat64:
		_, ok := v.(Float)
		return ok
	case DTypeString:
		_, ok := v.(String)
		return ok
	case DTypeBool:
		_, ok := v.(Bool)
		return ok
	default:
		return true
	}
}

// Zero returns the fill value used for nulls under dtype.
func (d DType) Zero() Value {
	switch d {
	case DTypeFloat64:
		return Float(0)
	case DTypeString:
		return String("0")
	case DTypeBool:
		return Bool(false)
	default:
		return Int(0)
	}
}

// InferDType returns the narrowest dtype all non-null values conform to.
// A column of nulls only is object.
func InferDType(values []Value) DType {
	var kinds [5]bool
	seen := false
	for _, v := range values {
		if IsNull(v) {
			continue
		}
		seen = true
		switch v.(type) {
		case Int:
			kinds[0] = true
		case Float:
			kinds[1] = true
		case String:
			kinds[2] = true
		case Bool:
			kinds[3] = true
		}
	}
	if !seen {
		return DTypeObject
	}
	count := 0
	for _, k := range kinds {
		if k {
			count++
		}
	}
	if count > 1 {
		return DTypeObject
	}
	switch {
	case kinds[0]:
		return DTypeInt64
	case kinds[1]:
		return DTypeFloat64
	case kinds[2]:
		return DTypeString
	default:
		return DTypeBool
	}
}

// castValue converts a single value to dtype. Nulls stay null.
func castValue(v Value, to DType) (Value, error) {
	if IsNull(v) {
		return Null{}, nil
	}
	switch to {
	case DTypeObject:
		return v, nil
	case DTypeString:
		return String(Format(v)), nil
	case DTypeFloat64:
		switch val := v.(type) {
		case Int:
			return Float(val), nil
		case Float:
			return val, nil
		case Bool:
			if val {
				return Float(1), nil
			}
			return Float(0), nil
		case String:
			f, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as %s", ErrCast, string(val), to)
			}
			return Float(f), nil
		}
	case DTypeInt64:
		switch val := v.(type) {
		case Int:
			return val, nil
		case Float:
			f := float64(val)
			if math.IsInf(f, 0) || math.Abs(f) >= 1<<63 {
				return nil, fmt.Errorf("%w: %v as %s", ErrCast, f, to)
			}
			return Int(int64(f)), nil
		case Bool:
			if val {
				return Int(1), nil
			}
			return Int(0), nil
		case String:
			n, err := strconv.ParseInt(strings.TrimSpace(string(val)), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as %s", ErrCast, string(val), to)
			}
			return Int(n), nil
		}
	case DTypeBool:
		switch val := v.(type) {
		case Bool:
			return val, nil
		case Int:
			return Bool(val != 0), nil
		case Float:
			return Bool(val != 0), nil
		case String:
			b, err := strconv.ParseBool(strings.TrimSpace(string(val)))
			if err != nil {
				return nil, fmt.Errorf("%w: %q as %s", ErrCast, string(val), to)
			}
			return Bool(b), nil
		}
	}
	return nil, fmt.Errorf("%w: %T as %s", ErrCast, v, to)
}
