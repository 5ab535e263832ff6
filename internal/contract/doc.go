// Package contract implements the check-then-optionally-repair protocol
// shared by every rule.
//
// A Rule supplies two extension points: Check, a pure predicate, and Repair,
// which produces a new subject or reports that it could not. A Contract pairs
// a rule with its repair policy and diagnostic message, and Evaluate runs the
// state machine:
//
//	check passes                 -> Verdict{Passed: true,  Data: input}
//	check fails, repair disabled -> Verdict{Passed: false, Data: input}
//	check fails, repair enabled  -> emit repair_attempted, then
//	    repair succeeds          -> Verdict{Passed: true,  Data: repaired}
//	    repair unsupported/fails -> emit repair_failed,
//	                                Verdict{Passed: false, FailureMarker: true}
//
// "No repair strategy" and "repair strategy failed" collapse into the same
// public verdict shape; Verdict.Repair keeps them apart for callers and tests
// that need the distinction.
//
// Contracts are immutable after New and safe for concurrent use. Evaluate
// never panics and never returns an error for a well-typed subject.
package contract
