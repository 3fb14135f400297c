// Package session provides the session-scoped key/value storage the cart
// persists to.
//
// Two backends implement Storage:
//   - Memory: process-local, used by tests and throwaway sessions
//   - SQLite: one file shared by many sessions, each session isolated by id
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Writes are ordered by a logical clock (seq), never by wall-clock time, so
// "most recent session" is well defined across restarts.
package session
