package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
)

// Table rule names.
const (
	RuleTableColumns     = "columns"
	RuleTableDTypes      = "dtypes"
	RuleTableNotNull     = "not_null"
	RuleTableUniqueLabel = "unique_labels"
)

type tableColumns struct {
	columns []string
}

func (tableColumns) Name() string { return RuleTableColumns }

func (r tableColumns) Check(t *frame.Table) bool {
	for _, name := range r.columns {
		if !t.Has(name) {
			return false
		}
	}
	return true
}

// Repair appends each missing column, in configured order, filled with nulls.
func (r tableColumns) Repair(t *frame.Table) contract.RepairOutcome[*frame.Table] {
	out := t
	for _, name := range r.columns {
		if out.Has(name) {
			continue
		}
		next, err := out.WithColumn(frame.NewNullColumn(name, t.Rows()))
		if err != nil {
			return contract.Failed[*frame.Table](err)
		}
		out = next
	}
	return contract.Repaired(out)
}

// RequireColumns requires every named column to exist. Repair adds missing
// columns of nulls. Default: repair on, message "Columns [..] are violated."
func RequireColumns(columns []string, opts ...contract.Option) *contract.Contract[*frame.Table] {
	cols := slices.Clone(columns)
	defaults := []contract.Option{
		contract.WithMessage(fmt.Sprintf("Columns %v are violated.", cols)),
	}
	return contract.New[*frame.Table](tableColumns{columns: cols}, append(defaults, opts...)...)
}

type tableDTypes struct {
	dtypes map[string]frame.DType
}

func (tableDTypes) Name() string { return RuleTableDTypes }

// Check fails when a configured column is absent or has another dtype.
func (r tableDTypes) Check(t *frame.Table) bool {
	have := t.DTypes()
	for name, want := range r.dtypes {
		got, ok := have[name]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Repair casts all configured columns in one batch; any failure leaves the
// table unrepaired.
func (r tableDTypes) Repair(t *frame.Table) contract.RepairOutcome[*frame.Table] {
	out, err := t.Cast(r.dtypes)
	if err != nil {
		return contract.Failed[*frame.Table](err)
	}
	return contract.Repaired(out)
}

// RequireDTypes requires each named column to have the given dtype. Repair
// casts all of them or none. Default: repair on.
func RequireDTypes(dtypes map[string]frame.DType, opts ...contract.Option) *contract.Contract[*frame.Table] {
	cfg := maps.Clone(dtypes)
	defaults := []contract.Option{
		contract.WithMessage(fmt.Sprintf("Dtypes %v are violated.", cfg)),
	}
	return contract.New[*frame.Table](tableDTypes{dtypes: cfg}, append(defaults, opts...)...)
}

type tableNotNull struct {
	contract.NoRepair[*frame.Table]
	columns []string
}

func (tableNotNull) Name() string { return RuleTableNotNull }

// Check fails when a configured column is absent or holds a null.
func (r tableNotNull) Check(t *frame.Table) bool {
	for _, name := range r.columns {
		c, ok := t.Column(name)
		if !ok || c.HasNulls() {
			return false
		}
	}
	return true
}

// RequireNotNull requires the named columns to hold no nulls. Inspect-only:
// there is no repair. Default: repair off.
func RequireNotNull(columns []string, opts ...contract.Option) *contract.Contract[*frame.Table] {
	defaults := []contract.Option{
		contract.WithRepair(false),
		contract.WithMessage("Columns contain NaN values."),
	}
	return contract.New[*frame.Table](tableNotNull{columns: slices.Clone(columns)}, append(defaults, opts...)...)
}

type tableUniqueLabels struct {
	contract.NoRepair[*frame.Table]
}

func (tableUniqueLabels) Name() string { return RuleTableUniqueLabel }

func (tableUniqueLabels) Check(t *frame.Table) bool { return t.Labels().IsUnique() }

// RequireUniqueRowLabels requires the table's row labels to be unique.
// Inspect-only. Default: repair off.
func RequireUniqueRowLabels(opts ...contract.Option) *contract.Contract[*frame.Table] {
	defaults := []contract.Option{
		contract.WithRepair(false),
		contract.WithMessage("Index contains duplicates."),
	}
	return contract.New[*frame.Table](tableUniqueLabels{}, append(defaults, opts...)...)
}
