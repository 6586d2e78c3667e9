// Package sqlite provides the persistent chapter search index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Chapters are stored as plain rows; candidate rows are
// selected with LIKE and ranked in Go, since SQLite's FTS tokenizers do not
// segment Chinese text.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.chaptermap/data/chaptermap.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
