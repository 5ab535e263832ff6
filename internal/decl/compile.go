package decl

import (
	"fmt"

	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/frame"
	"github.com/roach88/tablecontract/internal/rules"
)

// Compile validates decls and builds a contract for each, in order.
//
// Options are applied to every contract after the declaration's own repair
// and message settings, so they take precedence; the CLI uses this to
// attach its sink and to force repair off.
func Compile(decls []Declaration, opts ...contract.Option) (*Plan, error) {
	if errs := Validate(decls); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	plan := &Plan{Contracts: make([]Bound, 0, len(decls))}
	for _, d := range decls {
		ev, err := build(d, opts)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", d.Name, err)
		}
		plan.Contracts = append(plan.Contracts, Bound{Declaration: d, Evaluator: ev})
	}
	return plan, nil
}

func build(d Declaration, extra []contract.Option) (contract.Evaluator, error) {
	scope, _ := frame.ParseKind(d.Scope)
	dtypes, err := d.dtypes()
	if err != nil {
		return nil, err
	}

	opts := []contract.Option{contract.WithName(d.Name)}
	if d.Repair != nil {
		opts = append(opts, contract.WithRepair(*d.Repair))
	}
	if d.Message != "" {
		opts = append(opts, contract.WithMessage(d.Message))
	}
	opts = append(opts, extra...)

	return rules.Build(rules.Spec{
		Scope:   scope,
		Rule:    d.Rule,
		Columns: d.Columns,
		DTypes:  dtypes,
		Names:   d.Names,
		Options: opts,
	})
}

// LoadPlan loads the declarations at path and compiles them.
func LoadPlan(path string, opts ...contract.Option) (*Plan, error) {
	decls, err := Load(path)
	if err != nil {
		return nil, err
	}
	plan, err := Compile(decls, opts...)
	if err != nil {
		return nil, err
	}
	plan.Source = path
	return plan, nil
}
