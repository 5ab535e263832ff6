// Package store provides the SQLite-backed journal of contract runs.
//
// The journal is append-only:
//   - Runs: one row per check of a table against a declaration plan
//   - Diagnostics: every repair_attempted and repair_failed emission
//   - Steps: the per-contract outcome of a run
//
// # Ordering
//
// Rows are stamped with seq from a logical clock, never with timestamps.
// All queries order by seq ASC, id ASC COLLATE BINARY so that listings are
// identical across reads.
//
// # Subjects
//
// Diagnostics do not store the subject itself. They store its fingerprint,
// frame.Fingerprint, which identifies the exact table, column or label
// sequence a repair was attempted on.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
