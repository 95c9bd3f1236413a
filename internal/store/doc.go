// Package store provides the SQLite-backed attempt log.
//
// Every `wfc run` writes one row to runs (configuration plus tileset hash)
// and one row per seeded attempt to attempts (seed, outcome, observed grid,
// grid hash). `wfc replay` reads them back and re-solves each attempt to
// check that the solver is still deterministic for the recorded tileset.
//
// # Ordering
//
// ListRuns orders by id (UUIDv7, so creation order); ReadAttempts orders by
// attempt number. No query depends on wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Grids are stored as canonical JSON (see ir.MarshalCanonical).
package store
