// Package check applies a compiled declaration plan to a table.
//
// Contracts run in plan order. Each contract sees the table as left by the
// previous one, so a repaired column or label sequence is what later
// contracts inspect.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/decl"
	"github.com/roach88/tablecontract/internal/frame"
)

// ErrReattach is the step error when a repaired column or label sequence
// no longer fits the table.
var ErrReattach = errors.New("repaired subject cannot be reattached to the table")

// Step is the outcome of one contract.
type Step struct {
	Contract string
	Rule     string
	Scope    frame.Kind
	Target   string

	Passed bool
	Repair contract.RepairStatus
	Err    error
}

// Repaired reports whether the contract passed only after a repair.
func (s Step) Repaired() bool { return s.Repair == contract.RepairSucceeded }

// Result is the outcome of Run.
type Result struct {
	// Table is the input with every successful repair applied.
	Table *frame.Table

	Steps []Step
}

// Passed reports whether every step passed.
func (r *Result) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed {
			return false
		}
	}
	return true
}

// Failed returns the steps that did not pass.
func (r *Result) Failed() []Step {
	var out []Step
	for _, s := range r.Steps {
		if !s.Passed {
			out = append(out, s)
		}
	}
	return out
}

// Run evaluates every contract in plan against t.
//
// A failing contract does not stop the run; its step is recorded and the
// table is left as it was. Run returns an error only when ctx is done or a
// contract is bound to a subject of the wrong kind.
func Run(ctx context.Context, plan *decl.Plan, t *frame.Table) (*Result, error) {
	res := &Result{Table: t, Steps: make([]Step, 0, len(plan.Contracts))}

	for _, b := range plan.Contracts {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ev := b.Evaluator
		step := Step{
			Contract: ev.Name(),
			Rule:     ev.Rule(),
			Scope:    ev.Scope(),
			Target:   b.Target(),
		}

		next, err := apply(res.Table, b, &step)
		if err != nil {
			return res, err
		}
		if next != nil {
			res.Table = next
		}

		slog.Debug("contract evaluated",
			"contract", step.Contract,
			"scope", step.Scope,
			"passed", step.Passed,
			"repair", step.Repair,
		)
		res.Steps = append(res.Steps, step)
	}
	return res, nil
}

// apply runs one bound contract, filling step. It returns the updated table
// when the step passed, and nil otherwise.
func apply(t *frame.Table, b decl.Bound, step *Step) (*frame.Table, error) {
	ev := b.Evaluator

	var subject frame.Subject
	switch ev.Scope() {
	case frame.KindTable:
		subject = t
	case frame.KindColumn:
		c, ok := t.Column(step.Target)
		if !ok {
			step.Err = fmt.Errorf("%w: %q", frame.ErrNoColumn, step.Target)
			return nil, nil
		}
		subject = c
	case frame.KindLabels:
		// Copied so that an in-place repair never reaches the caller's table.
		l := t.Labels()
		subject = frame.NewLabels(l.Values(), l.Names()...)
	}

	v, err := ev.EvaluateSubject(subject)
	if err != nil {
		return nil, fmt.Errorf("contract %q: %w", ev.Name(), err)
	}
	step.Passed = v.Passed
	step.Repair = v.Repair
	step.Err = v.Err
	if !v.Passed {
		return nil, nil
	}

	var next *frame.Table
	switch data := v.Data.(type) {
	case *frame.Table:
		next = data
	case *frame.Column:
		next, err = t.WithColumn(data)
	case *frame.Labels:
		next, err = t.WithLabels(data)
	}
	if err != nil {
		step.Passed = false
		step.Err = fmt.Errorf("%w: %w", ErrReattach, err)
		return nil, nil
	}
	return next, nil
}
