// Package store provides durable storage for the fimbl ledger.
//
// The store is a single SQLite database holding one Record row per
// tracked path, keyed by the canonical path string, plus an append-only
// events table journaling every mutating operation.
//
// Consistency model:
//   - Per-key operations (Get/Put/Delete) are atomic: a crash mid-write
//     leaves either the old or the new Record, never a torn mix.
//   - Cross-key iteration is NOT a snapshot. A concurrent writer (a cron
//     verify racing a manual accept) may be observed mid-iteration. This
//     is an accepted weak-consistency property, not a bug.
//
// WAL mode plus a busy timeout lets concurrent invocations of the
// program share the database without corrupting any single Record.
package store
