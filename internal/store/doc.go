// Package store provides SQLite-backed history of analyzer runs.
//
// Each run records the rule source, the module digest, the analyzer options
// and version, the pass flag, and the diagnostics in the order they were
// reported.
//
// # Ordering
//
//   - Runs are ordered by seq INTEGER (logical clock), NEVER timestamps
//   - Diagnostics are ordered by their index within the run
//   - All queries include an explicit ORDER BY
//
// # Identity
//
//   - Run IDs come from a RunIDGenerator (UUIDv7 by default)
//   - Writing a run whose ID already exists is a no-op
//   - Options are stored as canonical JSON so equal settings compare equal
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - user_version: SchemaVersion; a newer database is refused
package store
