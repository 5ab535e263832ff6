package enforce

import (
	"errors"
	"fmt"

	"github.com/roach88/tablecontract/internal/contract"
)

// ErrorCode categorizes enforcement errors.
type ErrorCode string

const (
	// ErrCodeMissingArgument indicates a guarded argument is not in the call.
	ErrCodeMissingArgument ErrorCode = "MISSING_ARGUMENT"

	// ErrCodeArgumentType indicates a guarded argument is not a subject of
	// the contract's kind.
	ErrCodeArgumentType ErrorCode = "ARGUMENT_TYPE"

	// ErrCodeValidationFailed indicates the argument failed its contract.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// Error is returned by a wrapped function when a guard rejects a call.
//
// MISSING_ARGUMENT and ARGUMENT_TYPE are programming errors in the wiring
// of the call site. VALIDATION_FAILED is a data error naming the argument.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Arg is the guarded argument name.
	Arg string

	// Contract is the name of the contract that ran.
	Contract string

	// Message is a human-readable description.
	Message string

	// Repair is the repair step of the failed verdict.
	Repair contract.RepairStatus

	// Err is the underlying repair error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: argument %q", e.Code, e.Arg)
	if e.Contract != "" {
		msg += fmt.Sprintf(" (contract=%s)", e.Contract)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying repair error.
func (e *Error) Unwrap() error { return e.Err }

// IsConfigError reports whether err is a call-site wiring error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeMissingArgument || e.Code == ErrCodeArgumentType
	}
	return false
}

// IsValidationError reports whether err is a failed contract on an argument.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeValidationFailed
	}
	return false
}
