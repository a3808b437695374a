// Package queue persists workflow items and studio settings in SQLite and
// exposes helpers for driving the item lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, stuck-item recovery, and the status transitions the workflow
// manager and CLI rely on: queued, processing, ready, error, skipped. Items
// carry retry counters and per-item transform overrides so the compositor
// can combine them with batch defaults.
//
// The database is treated as transient storage for in-flight batches rather
// than a long-term archive. Schema changes bump the version in schema.go;
// users clear the database to adopt the new schema.
//
// Treat this package as the single source of truth for queue semantics; when
// you add new statuses or columns, update schema.sql and bump schemaVersion.
package queue
