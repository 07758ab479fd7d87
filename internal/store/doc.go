// Package store provides SQLite-backed durable storage for detected events.
//
// The store is the engine's event sink and the source of run history:
//   - Sessions: one row per detection session, with the data hash it ran on
//   - Events: one row per emitted record, keyed by seq
//
// # Critical Patterns
//
// Logical Identity and Time
//   - Ordering uses seq INTEGER (logical clock), never timestamps
//   - Rewriting a seq is a no-op (ON CONFLICT DO NOTHING)
//
// Content Addressing
//   - Each event row keeps the record as RFC 8785 canonical JSON and its
//     SHA-256 hash (internal/ir/hash.go), so a row can be verified against
//     the record it was written from
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
