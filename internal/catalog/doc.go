// Package catalog provides SQLite-backed storage for observation metadata
// and per-observation event lists.
//
// The catalog is the data-access layer feeding background-model building:
// observations carry pointing, livetime and safe-energy thresholds; events
// carry reconstructed energy and field-of-view offset.
//
// Database configuration follows the usual SQLite recipe:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: events must reference an existing observation
//
// Imports run in a single transaction and are tagged with a UUID batch ID so
// a data delivery can be traced back to its import.
package catalog
