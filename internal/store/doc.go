// Package store provides SQLite-backed durable key-value slots.
//
// A slot is a single row keyed by name whose value is replaced wholesale
// on every write. The task list persists its entire collection as one JSON
// blob in one slot, so there is no incremental or append path.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: one writer per process
//
// Two processes sharing a database file follow last-writer-wins.
package store
