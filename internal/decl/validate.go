package decl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tablecontract/internal/frame"
	"github.com/roach88/tablecontract/internal/rules"
)

// Validation error codes (E101-E109)
const (
	ErrNameEmpty       = "E101" // name is required
	ErrDuplicateName   = "E102" // contract names must be unique
	ErrUnknownScope    = "E103" // scope is not table, column or labels
	ErrUnknownRule     = "E104" // rule is not in the catalogue for the scope
	ErrMissingColumns  = "E105" // rule needs columns or dtypes
	ErrInvalidDType    = "E106" // dtype string is not recognised
	ErrMissingTarget   = "E107" // column contract without a column
	ErrMissingNames    = "E108" // names rule without names
	ErrFieldNotAllowed = "E109" // field set that the rule does not use
)

// ValidationError is one problem found in a declaration.
type ValidationError struct {
	Contract string `json:"contract"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Source   string `json:"source,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Code)
	if e.Source != "" {
		prefix += " " + e.Source + ":"
	}
	return fmt.Sprintf("%s %s.%s: %s", prefix, e.Contract, e.Field, e.Message)
}

// ValidationErrors is returned by Compile when any declaration is invalid.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Validate checks every declaration and returns all errors found.
func Validate(decls []Declaration) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(decls))

	for i, d := range decls {
		ref := d.Name
		if ref == "" {
			ref = fmt.Sprintf("contract[%d]", i)
		}
		fail := func(field, code, format string, args ...any) {
			errs = append(errs, ValidationError{
				Contract: ref,
				Field:    field,
				Message:  fmt.Sprintf(format, args...),
				Code:     code,
				Source:   d.Source,
			})
		}

		// E101, E102
		if strings.TrimSpace(d.Name) == "" {
			fail("name", ErrNameEmpty, "name is required and must be non-empty")
		} else if seen[d.Name] {
			fail("name", ErrDuplicateName, "duplicate contract name %q", d.Name)
		}
		seen[d.Name] = true

		// E103
		scope, ok := frame.ParseKind(d.Scope)
		if !ok {
			fail("scope", ErrUnknownScope, "scope %q must be one of table, column, labels", d.Scope)
			continue
		}

		// E104
		entry, ok := rules.Lookup(scope, d.Rule)
		if !ok {
			fail("rule", ErrUnknownRule, "rule %q is not a %s rule", d.Rule, scope)
			continue
		}
		needs := func(field string) bool { return slices.Contains(entry.Needs, field) }

		// E105, E106
		if needs("columns") && len(d.Columns) == 0 {
			fail("columns", ErrMissingColumns, "rule %s requires at least one column", d.Rule)
		}
		if needs("dtypes") {
			if len(d.DTypes) == 0 {
				fail("dtypes", ErrMissingColumns, "rule %s requires at least one column dtype", d.Rule)
			}
			if _, err := d.dtypes(); err != nil {
				fail("dtypes", ErrInvalidDType, "%v", err)
			}
		}

		// E107
		if scope == frame.KindColumn && strings.TrimSpace(d.Column) == "" {
			fail("column", ErrMissingTarget, "column contracts require a target column")
		}

		// E108
		if needs("names") && len(d.Names) == 0 {
			fail("names", ErrMissingNames, "rule %s requires at least one name", d.Rule)
		}

		// E109
		if !needs("columns") && len(d.Columns) > 0 {
			fail("columns", ErrFieldNotAllowed, "rule %s does not take columns", d.Rule)
		}
		if !needs("dtypes") && len(d.DTypes) > 0 {
			fail("dtypes", ErrFieldNotAllowed, "rule %s does not take dtypes", d.Rule)
		}
		if !needs("names") && len(d.Names) > 0 {
			fail("names", ErrFieldNotAllowed, "rule %s does not take names", d.Rule)
		}
		if scope != frame.KindColumn && d.Column != "" {
			fail("column", ErrFieldNotAllowed, "%s contracts do not take a target column", scope)
		}
	}
	return errs
}
