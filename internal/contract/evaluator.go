package contract

import (
	"fmt"

	"github.com/roach88/tablecontract/internal/frame"
)

// Evaluator is the kind-erased view of a Contract, used where contracts of
// different scopes are handled together (declarations, the CLI).
type Evaluator interface {
	Name() string
	Rule() string
	Scope() frame.Kind
	Repairs() bool
	EvaluateSubject(s frame.Subject) (Verdict[frame.Subject], error)
}

var (
	_ Evaluator = (*Contract[*frame.Table])(nil)
	_ Evaluator = (*Contract[*frame.Column])(nil)
	_ Evaluator = (*Contract[*frame.Labels])(nil)
)

// EvaluateSubject evaluates a subject of unknown static kind.
//
// A subject of the wrong kind is a configuration error and returns
// ErrScopeMismatch without evaluating; every other outcome is reported
// through the verdict exactly as Evaluate would.
func (c *Contract[S]) EvaluateSubject(s frame.Subject) (Verdict[frame.Subject], error) {
	typed, ok := s.(S)
	if !ok {
		return Verdict[frame.Subject]{}, fmt.Errorf("%w: contract %q checks %s, got %T", ErrScopeMismatch, c.name, c.Scope(), s)
	}
	v := c.Evaluate(typed)
	out := Verdict[frame.Subject]{
		Passed:        v.Passed,
		FailureMarker: v.FailureMarker,
		Repair:        v.Repair,
		Err:           v.Err,
	}
	if !v.FailureMarker {
		out.Data = v.Data
	}
	return out, nil
}
