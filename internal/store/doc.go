// Package store provides SQLite-backed durable storage for scan runs.
//
// The store is an append-only log of:
//   - Runs: one row per scanned document (verdict, source, batch token)
//   - Trace records: every record a run emitted, in emission order
//
// # Identity and Ordering
//
// Run IDs are content-addressed (ir.RunID): scanning the same document twice
// yields the same ID, and the second write is a no-op. Ordering uses a
// logical seq column, never timestamps, and every query sorts by
// seq ASC, id ASC COLLATE BINARY so results are identical across reads.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
