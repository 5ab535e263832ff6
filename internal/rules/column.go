package rules

import (
	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
)

// Column rule names.
const (
	RuleColumnNonNegative = "non_negative"
	RuleColumnNotNull     = "not_null"
	RuleColumnUnique      = "unique"
	RuleColumnPositive    = "positive"
)

type columnNonNegative struct{}

func (columnNonNegative) Name() string { return RuleColumnNonNegative }

func (columnNonNegative) Check(c *frame.Column) bool {
	return allNumeric(c.Values(), nonNegative)
}

func (columnNonNegative) Repair(c *frame.Column) contract.RepairOutcome[*frame.Column] {
	if err := requireNumeric(c.Values()); err != nil {
		return contract.Failed[*frame.Column](err)
	}
	return contract.Repaired(c.Map(clampZero))
}

// NonNegative requires every entry to be >= 0. Repair clamps negatives to 0.
func NonNegative(opts ...contract.Option) *contract.Contract[*frame.Column] {
	return contract.New[*frame.Column](columnNonNegative{}, opts...)
}

type columnNotNull struct{}

func (columnNotNull) Name() string { return RuleColumnNotNull }

func (columnNotNull) Check(c *frame.Column) bool { return !c.HasNulls() }

func (columnNotNull) Repair(c *frame.Column) contract.RepairOutcome[*frame.Column] {
	fill := c.DType().Zero()
	return contract.Repaired(c.Map(func(v frame.Value) frame.Value {
		if frame.IsNull(v) {
			return fill
		}
		return v
	}))
}

// NotNull requires no null entries. Repair fills nulls with the zero of the
// column dtype.
func NotNull(opts ...contract.Option) *contract.Contract[*frame.Column] {
	return contract.New[*frame.Column](columnNotNull{}, opts...)
}

type columnUnique struct{}

func (columnUnique) Name() string { return RuleColumnUnique }

func (columnUnique) Check(c *frame.Column) bool { return c.IsUnique() }

func (columnUnique) Repair(c *frame.Column) contract.RepairOutcome[*frame.Column] {
	return contract.Repaired(c.DropDuplicates())
}

// UniqueValues requires no duplicate entries. Repair drops later duplicates
// together with their row labels.
func UniqueValues(opts ...contract.Option) *contract.Contract[*frame.Column] {
	return contract.New[*frame.Column](columnUnique{}, opts...)
}

type columnPositive struct{}

func (columnPositive) Name() string { return RuleColumnPositive }

func (columnPositive) Check(c *frame.Column) bool {
	return allNumeric(c.Values(), positive)
}

func (columnPositive) Repair(c *frame.Column) contract.RepairOutcome[*frame.Column] {
	values := c.Values()
	if err := requireNumeric(values); err != nil {
		return contract.Failed[*frame.Column](err)
	}
	return contract.Repaired(c.Map(replaceNonPositive(positiveReplacement(values))))
}

// Positive requires every entry to be > 0. Repair replaces entries <= 0 with
// the smallest positive entry, or 1 when there is none.
func Positive(opts ...contract.Option) *contract.Contract[*frame.Column] {
	return contract.New[*frame.Column](columnPositive{}, opts...)
}
