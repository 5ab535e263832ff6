package contract

import (
	"errors"

	"github.com/roach88/tablecontract/internal/frame"
)

// RepairStatus records what happened to the repair step of one evaluation.
type RepairStatus string

const (
	// RepairNotAttempted means the check passed or repair was disabled.
	RepairNotAttempted RepairStatus = "not_attempted"

	// RepairUnsupported means the rule declares no repair strategy.
	RepairUnsupported RepairStatus = "unsupported"

	// RepairFailed means the rule's repair strategy ran and could not
	// produce valid data.
	RepairFailed RepairStatus = "failed"

	// RepairSucceeded means the repair produced a replacement subject.
	RepairSucceeded RepairStatus = "succeeded"
)

// ErrNoRepair is the cause attached to an unsupported repair.
var ErrNoRepair = errors.New("rule declares no repair strategy")

// RepairOutcome is the tagged result of Rule.Repair.
// Construct it with Unsupported, Failed, or Repaired.
type RepairOutcome[S frame.Subject] struct {
	Status RepairStatus
	Data   S     // set only when Status is RepairSucceeded
	Err    error // cause when Status is RepairFailed or RepairUnsupported
}

// Unsupported reports that no repair strategy exists.
func Unsupported[S frame.Subject]() RepairOutcome[S] {
	return RepairOutcome[S]{Status: RepairUnsupported, Err: ErrNoRepair}
}

// Failed reports that the repair strategy ran and failed with err.
func Failed[S frame.Subject](err error) RepairOutcome[S] {
	return RepairOutcome[S]{Status: RepairFailed, Err: err}
}

// Repaired reports a successful repair.
func Repaired[S frame.Subject](s S) RepairOutcome[S] {
	return RepairOutcome[S]{Status: RepairSucceeded, Data: s}
}

// NoRepair is embedded by rules that are inspect-only.
type NoRepair[S frame.Subject] struct{}

// Repair always reports Unsupported.
func (NoRepair[S]) Repair(S) RepairOutcome[S] { return Unsupported[S]() }
