package rules

import (
	"slices"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
)

// Label sequence rule names.
const (
	RuleLabelsUnique      = "unique"
	RuleLabelsMonotonic   = "monotonic"
	RuleLabelsNonNegative = "non_negative"
	RuleLabelsPositive    = "positive"
	RuleLabelsNames       = "names"
)

type labelsUnique struct{}

func (labelsUnique) Name() string { return RuleLabelsUnique }

func (labelsUnique) Check(l *frame.Labels) bool { return l.IsUnique() }

func (labelsUnique) Repair(l *frame.Labels) contract.RepairOutcome[*frame.Labels] {
	return contract.Repaired(l.DropDuplicates())
}

// UniqueLabels requires no repeated label. Repair keeps the first occurrence
// of each label in order.
func UniqueLabels(opts ...contract.Option) *contract.Contract[*frame.Labels] {
	return contract.New[*frame.Labels](labelsUnique{}, opts...)
}

type labelsMonotonic struct{}

func (labelsMonotonic) Name() string { return RuleLabelsMonotonic }

func (labelsMonotonic) Check(l *frame.Labels) bool {
	return l.IsMonotonicIncreasing() || l.IsMonotonicDecreasing()
}

func (labelsMonotonic) Repair(l *frame.Labels) contract.RepairOutcome[*frame.Labels] {
	return contract.Repaired(l.SortAscending())
}

// MonotonicLabels requires labels to be non-decreasing or non-increasing.
// Repair sorts ascending.
func MonotonicLabels(opts ...contract.Option) *contract.Contract[*frame.Labels] {
	return contract.New[*frame.Labels](labelsMonotonic{}, opts...)
}

type labelsNonNegative struct{}

func (labelsNonNegative) Name() string { return RuleLabelsNonNegative }

func (labelsNonNegative) Check(l *frame.Labels) bool {
	return allNumeric(l.Values(), nonNegative)
}

func (labelsNonNegative) Repair(l *frame.Labels) contract.RepairOutcome[*frame.Labels] {
	if err := requireNumeric(l.Values()); err != nil {
		return contract.Failed[*frame.Labels](err)
	}
	return contract.Repaired(l.Map(clampZero))
}

// NonNegativeLabels requires every label to be >= 0. Repair clamps negative
// labels to 0. Non-numeric labels fail the check and make repair fail with
// ErrNonNumeric.
func NonNegativeLabels(opts ...contract.Option) *contract.Contract[*frame.Labels] {
	return contract.New[*frame.Labels](labelsNonNegative{}, opts...)
}

type labelsPositive struct{}

func (labelsPositive) Name() string { return RuleLabelsPositive }

func (labelsPositive) Check(l *frame.Labels) bool {
	return allNumeric(l.Values(), positive)
}

func (labelsPositive) Repair(l *frame.Labels) contract.RepairOutcome[*frame.Labels] {
	values := l.Values()
	if err := requireNumeric(values); err != nil {
		return contract.Failed[*frame.Labels](err)
	}
	return contract.Repaired(l.Map(replaceNonPositive(positiveReplacement(values))))
}

// PositiveLabels requires every label to be > 0. Repair replaces labels <= 0
// with the smallest positive label, or 1 when there is none.
func PositiveLabels(opts ...contract.Option) *contract.Contract[*frame.Labels] {
	return contract.New[*frame.Labels](labelsPositive{}, opts...)
}

type labelsNames struct {
	names []string
}

func (labelsNames) Name() string { return RuleLabelsNames }

func (r labelsNames) Check(l *frame.Labels) bool {
	return slices.Equal(l.Names(), r.names)
}

// Repair overwrites the names of l in place and returns l itself.
func (r labelsNames) Repair(l *frame.Labels) contract.RepairOutcome[*frame.Labels] {
	l.SetNames(r.names)
	return contract.Repaired(l)
}

// RequireLabelNames requires the per-level names to equal names exactly,
// in order and length.
//
// Unlike every other rule, repair MUTATES the caller's sequence: it sets
// the names in place and the verdict data is the same *frame.Labels. Do not
// evaluate it on labels another goroutine is reading.
func RequireLabelNames(names []string, opts ...contract.Option) *contract.Contract[*frame.Labels] {
	return contract.New[*frame.Labels](labelsNames{names: slices.Clone(names)}, opts...)
}
