// Package rules is the catalogue of built-in contracts.
//
// Three scopes are covered:
//
//	table   columns, dtypes, not_null, unique_labels
//	column  non_negative, not_null, unique, positive
//	labels  unique, monotonic, non_negative, positive, names
//
// Each constructor returns a *contract.Contract with rule-specific defaults
// for the repair policy and the diagnostic message; options passed by the
// caller are applied after the defaults. Build and Catalogue expose the same
// rules by name for declarations.
package rules
