// Package store persists benchmarking runs in SQLite.
//
// A run is one protocol execution. It owns the jobs it dispatched, one row
// per job with the compiled sequence text and the executor's histogram, and
// the reports its analysis produced.
//
// # Ordering
//
// Runs, jobs and reports carry an integer seq and every read orders by it.
// Wall-clock time is recorded on runs for display only.
//
// # Identity
//
// Run IDs come from an IDGenerator (UUIDv7 in production). Job IDs are
// content-addressed: SHA-256 over a domain prefix and the canonical JSON of
// the run ID, table index, position and sequence text.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
