package contract

import (
	"errors"
	"fmt"

	"github.com/roach88/tablecontract/internal/diag"
	"github.com/roach88/tablecontract/internal/frame"
)

// RepairFailureMessage is the message of every repair_failed diagnostic.
const RepairFailureMessage = "Coercion failed: the data could not be repaired and must be supplied in a valid form."

// ErrScopeMismatch is returned by EvaluateSubject when the subject is not
// of the kind the contract checks.
var ErrScopeMismatch = errors.New("subject kind does not match contract scope")

// Rule is one invariant over subjects of kind S.
//
// Check must be pure. Repair must not mutate its input, with the single
// documented exception of the label-names rule. Rules without a repair
// strategy embed NoRepair.
type Rule[S frame.Subject] interface {
	Name() string
	Check(s S) bool
	Repair(s S) RepairOutcome[S]
}

// Verdict is the result of one Evaluate call.
type Verdict[S frame.Subject] struct {
	// Passed is true when Data satisfies the rule, originally or after repair.
	Passed bool

	// Data is the input, the repaired subject, or the zero value when
	// FailureMarker is set.
	Data S

	// FailureMarker is set when repair was attempted and produced no valid
	// data.
	FailureMarker bool

	// Repair records the repair step. It separates "no strategy" from
	// "strategy failed" even though both carry FailureMarker.
	Repair RepairStatus

	// Err is the cause of a failed or unsupported repair.
	Err error
}

// Value returns the verdict data and whether it is a real subject rather
// than the failure marker.
func (v Verdict[S]) Value() (S, bool) {
	return v.Data, !v.FailureMarker
}

// Option configures a Contract.
type Option func(*config)

type config struct {
	repair  bool
	message string
	name    string
	sink    diag.Sink
}

// WithRepair sets whether a failed check triggers repair.
func WithRepair(repair bool) Option {
	return func(c *config) { c.repair = repair }
}

// WithMessage sets the message of the repair_attempted diagnostic.
func WithMessage(message string) Option {
	return func(c *config) { c.message = message }
}

// WithName sets the contract name reported in diagnostics.
// Default: the rule name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithSink sets where diagnostics go. Default: diag.Default().
func WithSink(sink diag.Sink) Option {
	return func(c *config) { c.sink = sink }
}

// Contract is a configured rule with an attached repair policy.
//
// A Contract holds no per-call state and never changes after New; it is
// safe to share across goroutines.
type Contract[S frame.Subject] struct {
	rule    Rule[S]
	repair  bool
	message string
	name    string
	sink    diag.Sink
}

// New creates a contract for rule. Repair is enabled unless an option says
// otherwise; later options override earlier ones.
func New[S frame.Subject](rule Rule[S], opts ...Option) *Contract[S] {
	cfg := config{repair: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = rule.Name()
	}
	return &Contract[S]{
		rule:    rule,
		repair:  cfg.repair,
		message: cfg.message,
		name:    cfg.name,
		sink:    cfg.sink,
	}
}

// Name returns the contract name.
func (c *Contract[S]) Name() string { return c.name }

// Rule returns the catalogue name of the underlying rule.
func (c *Contract[S]) Rule() string { return c.rule.Name() }

// Scope returns the subject kind the contract checks.
func (c *Contract[S]) Scope() frame.Kind { return frame.KindOf[S]() }

// Repairs reports whether a failed check triggers repair.
func (c *Contract[S]) Repairs() bool { return c.repair }

// Message returns the repair_attempted diagnostic message.
func (c *Contract[S]) Message() string { return c.message }

// Check runs the rule's predicate without repair or diagnostics.
func (c *Contract[S]) Check(s S) bool { return c.rule.Check(s) }

// Evaluate checks s and, when the check fails and repair is enabled,
// attempts a repair. Diagnostics are emitted only when repair is attempted:
// once before repairing, and once more if the repair yields the marker.
func (c *Contract[S]) Evaluate(s S) Verdict[S] {
	if c.rule.Check(s) {
		return Verdict[S]{Passed: true, Data: s, Repair: RepairNotAttempted}
	}
	if !c.repair {
		return Verdict[S]{Passed: false, Data: s, Repair: RepairNotAttempted}
	}

	c.emit(diag.KindRepairAttempted, c.message, s, nil)

	out := c.runRepair(s)
	if out.Status == RepairSucceeded {
		return Verdict[S]{Passed: true, Data: out.Data, Repair: RepairSucceeded}
	}

	c.emit(diag.KindRepairFailed, RepairFailureMessage, s, out.Err)
	return Verdict[S]{
		Passed:        false,
		FailureMarker: true,
		Repair:        out.Status,
		Err:           out.Err,
	}
}

// runRepair converts a panicking repair into a failed outcome so that no
// collaborator failure escapes Evaluate.
func (c *Contract[S]) runRepair(s S) (out RepairOutcome[S]) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed[S](fmt.Errorf("repair %s panicked: %v", c.rule.Name(), r))
		}
	}()
	out = c.rule.Repair(s)
	switch out.Status {
	case RepairSucceeded, RepairFailed, RepairUnsupported:
	default:
		out = Failed[S](fmt.Errorf("repair %s returned status %q", c.rule.Name(), out.Status))
	}
	return out
}

func (c *Contract[S]) emit(kind diag.Kind, message string, s S, err error) {
	sink := c.sink
	if sink == nil {
		sink = diag.Default()
	}
	sink.Emit(diag.Diagnostic{
		Kind:     kind,
		Contract: c.name,
		Rule:     c.rule.Name(),
		Scope:    c.Scope(),
		Message:  message,
		Subject:  s,
		Err:      err,
	})
}
