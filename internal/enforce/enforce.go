// Package enforce applies contracts to named function arguments at the
// call boundary.
//
// A wrapped function receives its inputs through an Args bag. Every guard
// runs, and may replace its argument with repaired data, before the body
// is invoked; a rejected call never reaches the body.
package enforce

import (
	"context"
	"fmt"
	"maps"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
)

// Args is the named parameter bag of a guarded call.
type Args map[string]any

// Func is a function whose arguments are passed by name.
type Func[R any] func(ctx context.Context, args Args) (R, error)

// Guard binds one contract to one argument name.
type Guard struct {
	arg      string
	contract string
	apply    func(v any) (any, *Error)
}

// Arg returns the guarded argument name.
func (g Guard) Arg() string { return g.arg }

// Contract returns the name of the guarding contract.
func (g Guard) Contract() string { return g.contract }

// Require guards argument arg with c. The argument must hold an S.
func Require[S frame.Subject](arg string, c *contract.Contract[S]) Guard {
	return Guard{
		arg:      arg,
		contract: c.Name(),
		apply: func(v any) (any, *Error) {
			s, ok := v.(S)
			var zero S
			if !ok || any(s) == any(zero) {
				return nil, &Error{
					Code:     ErrCodeArgumentType,
					Arg:      arg,
					Contract: c.Name(),
					Message:  fmt.Sprintf("want non-nil %s, got %T", c.Scope(), v),
				}
			}
			verdict := c.Evaluate(s)
			if !verdict.Passed {
				return nil, validationError(arg, c.Name(), verdict.Repair, verdict.Err)
			}
			return verdict.Data, nil
		},
	}
}

// RequireEvaluator guards argument arg with a kind-erased contract.
func RequireEvaluator(arg string, ev contract.Evaluator) Guard {
	return Guard{
		arg:      arg,
		contract: ev.Name(),
		apply: func(v any) (any, *Error) {
			s, ok := v.(frame.Subject)
			if !ok || isNil(s) {
				return nil, &Error{
					Code:     ErrCodeArgumentType,
					Arg:      arg,
					Contract: ev.Name(),
					Message:  fmt.Sprintf("want %s, got %T", ev.Scope(), v),
				}
			}
			verdict, err := ev.EvaluateSubject(s)
			if err != nil {
				return nil, &Error{
					Code:     ErrCodeArgumentType,
					Arg:      arg,
					Contract: ev.Name(),
					Message:  fmt.Sprintf("want %s, got %s", ev.Scope(), s.Kind()),
					Err:      err,
				}
			}
			if !verdict.Passed {
				return nil, validationError(arg, ev.Name(), verdict.Repair, verdict.Err)
			}
			return verdict.Data, nil
		},
	}
}

func isNil(s frame.Subject) bool {
	switch v := s.(type) {
	case *frame.Table:
		return v == nil
	case *frame.Column:
		return v == nil
	case *frame.Labels:
		return v == nil
	}
	return s == nil
}

func validationError(arg, name string, repair contract.RepairStatus, err error) *Error {
	msg := "check failed and repair is disabled"
	if repair != contract.RepairNotAttempted {
		msg = "check failed and could not be repaired"
	}
	return &Error{
		Code:     ErrCodeValidationFailed,
		Arg:      arg,
		Contract: name,
		Message:  msg,
		Repair:   repair,
		Err:      err,
	}
}

// Wrap returns fn guarded by guards.
//
// On each call the bag is copied, guards run in order and each replaces
// its argument with the verdict data. The first rejection aborts the call
// before fn runs. The caller's bag is never modified.
func Wrap[R any](fn Func[R], guards ...Guard) Func[R] {
	return func(ctx context.Context, args Args) (R, error) {
		var zero R
		checked := maps.Clone(args)
		if checked == nil {
			checked = Args{}
		}
		for _, g := range guards {
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			v, ok := checked[g.arg]
			if !ok {
				return zero, &Error{
					Code:     ErrCodeMissingArgument,
					Arg:      g.arg,
					Contract: g.contract,
					Message:  "argument not supplied",
				}
			}
			out, err := g.apply(v)
			if err != nil {
				return zero, err
			}
			checked[g.arg] = out
		}
		return fn(ctx, checked)
	}
}

// Get returns the named argument as a T.
func Get[T any](args Args, name string) (T, bool) {
	v, ok := args[name].(T)
	return v, ok
}
