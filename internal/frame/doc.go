// Package frame provides the minimal tabular model that contracts operate on.
//
// Three subject kinds exist and the set is closed:
//   - Table: ordered named columns sharing one row label sequence
//   - Column: a single named vector of values with its own labels
//   - Labels: an ordered label sequence with per-level names
//
// Key design constraints:
//   - Table and Column values are never mutated after construction; every
//     transforming operation returns a new value
//   - Labels.SetNames is the only in-place mutation in the package
//   - Floats are allowed; NaN floats are treated as null everywhere
//   - frame imports nothing internal
package frame
