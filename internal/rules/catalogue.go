package rules

import (
	"errors"
	"fmt"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
)

// ErrUnknownRule is returned by Build for a scope/rule pair that is not in
// the catalogue.
var ErrUnknownRule = errors.New("unknown rule")

// Entry describes one catalogue rule.
type Entry struct {
	Scope         frame.Kind `json:"scope"`
	Name          string     `json:"name"`
	Summary       string     `json:"summary"`
	HasRepair     bool       `json:"has_repair"`
	DefaultRepair bool       `json:"default_repair"`

	// Needs lists the configuration fields the rule requires:
	// "columns", "dtypes" or "names".
	Needs []string `json:"needs,omitempty"`
}

// Spec is the kind-erased configuration of one rule instance.
type Spec struct {
	Scope   frame.Kind
	Rule    string
	Columns []string
	DTypes  map[string]frame.DType
	Names   []string
	Options []contract.Option
}

type builder struct {
	entry Entry
	build func(Spec) contract.Evaluator
}

var catalogue = []builder{
	{
		entry: Entry{Scope: frame.KindTable, Name: RuleTableColumns, Summary: "named columns are present", HasRepair: true, DefaultRepair: true, Needs: []string{"columns"}},
		build: func(s Spec) contract.Evaluator { return RequireColumns(s.Columns, s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindTable, Name: RuleTableDTypes, Summary: "named columns have the given dtypes", HasRepair: true, DefaultRepair: true, Needs: []string{"dtypes"}},
		build: func(s Spec) contract.Evaluator { return RequireDTypes(s.DTypes, s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindTable, Name: RuleTableNotNull, Summary: "named columns hold no nulls", Needs: []string{"columns"}},
		build: func(s Spec) contract.Evaluator { return RequireNotNull(s.Columns, s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindTable, Name: RuleTableUniqueLabel, Summary: "row labels are unique"},
		build: func(s Spec) contract.Evaluator { return RequireUniqueRowLabels(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindColumn, Name: RuleColumnNonNegative, Summary: "entries are >= 0", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return NonNegative(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindColumn, Name: RuleColumnNotNull, Summary: "entries are not null", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return NotNull(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindColumn, Name: RuleColumnUnique, Summary: "entries are unique", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return UniqueValues(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindColumn, Name: RuleColumnPositive, Summary: "entries are > 0", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return Positive(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindLabels, Name: RuleLabelsUnique, Summary: "labels are unique", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return UniqueLabels(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindLabels, Name: RuleLabelsMonotonic, Summary: "labels are monotonic", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return MonotonicLabels(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindLabels, Name: RuleLabelsNonNegative, Summary: "labels are >= 0", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return NonNegativeLabels(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindLabels, Name: RuleLabelsPositive, Summary: "labels are > 0", HasRepair: true, DefaultRepair: true},
		build: func(s Spec) contract.Evaluator { return PositiveLabels(s.Options...) },
	},
	{
		entry: Entry{Scope: frame.KindLabels, Name: RuleLabelsNames, Summary: "label level names match", HasRepair: true, DefaultRepair: true, Needs: []string{"names"}},
		build: func(s Spec) contract.Evaluator { return RequireLabelNames(s.Names, s.Options...) },
	},
}

// Catalogue returns every rule, grouped by scope in table, column, labels
// order.
func Catalogue() []Entry {
	out := make([]Entry, len(catalogue))
	for i, b := range catalogue {
		out[i] = b.entry
		out[i].Needs = append([]string(nil), b.entry.Needs...)
	}
	return out
}

// Lookup finds the catalogue entry for scope and rule.
func Lookup(scope frame.Kind, rule string) (Entry, bool) {
	for _, b := range catalogue {
		if b.entry.Scope == scope && b.entry.Name == rule {
			return b.entry, true
		}
	}
	return Entry{}, false
}

// Build constructs the contract named by s. Field presence is not checked
// here; declarations are validated before they reach Build.
func Build(s Spec) (contract.Evaluator, error) {
	for _, b := range catalogue {
		if b.entry.Scope == s.Scope && b.entry.Name == s.Rule {
			return b.build(s), nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownRule, s.Scope, s.Rule)
}
