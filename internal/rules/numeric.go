package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/tablecontract/internal/frame"
)

// ErrNonNumeric is the repair failure for numeric rules applied to entries
// that are neither null nor numeric.
var ErrNonNumeric = errors.New("numeric rule applied to non-numeric entries")

// allNumeric reports whether pred holds for every non-null entry. Any
// non-numeric entry makes the check fail. Nulls are ignored.
func allNumeric(values []frame.Value, pred func(float64) bool) bool {
	for _, v := range values {
		if frame.IsNull(v) {
			continue
		}
		f, ok := frame.Numeric(v)
		if !ok || !pred(f) {
			return false
		}
	}
	return true
}

func requireNumeric(values []frame.Value) error {
	for i, v := range values {
		if frame.IsNull(v) {
			continue
		}
		if _, ok := frame.Numeric(v); !ok {
			return fmt.Errorf("%w: entry %d is %T", ErrNonNumeric, i, v)
		}
	}
	return nil
}

func nonNegative(f float64) bool { return f >= 0 }
func positive(f float64) bool    { return f > 0 }

// clampZero raises negative numbers to zero of the same kind.
func clampZero(v frame.Value) frame.Value {
	switch val := v.(type) {
	case frame.Int:
		if val < 0 {
			return frame.Int(0)
		}
	case frame.Float:
		if val < 0 {
			return frame.Float(0)
		}
	}
	return v
}

// positiveReplacement returns the smallest strictly positive entry, or 1 of
// the kind the entries use when none is positive.
func positiveReplacement(values []frame.Value) frame.Value {
	var best frame.Value
	bestF := math.Inf(1)
	floats := false
	for _, v := range values {
		f, ok := frame.Numeric(v)
		if !ok {
			continue
		}
		if _, isFloat := v.(frame.Float); isFloat {
			floats = true
		}
		if f > 0 && f < bestF {
			best, bestF = v, f
		}
	}
	if best != nil {
		return best
	}
	if floats {
		return frame.Float(1)
	}
	return frame.Int(1)
}

// replaceNonPositive returns fn that swaps entries <= 0 for replacement.
func replaceNonPositive(replacement frame.Value) func(frame.Value) frame.Value {
	return func(v frame.Value) frame.Value {
		f, ok := frame.Numeric(v)
		if ok && f <= 0 {
			return replacement
		}
		return v
	}
}
