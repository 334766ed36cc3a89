// Package sqlite persists the journal document in a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. The document is stored as three tables:
//
//   - entries: one row per day, including the optional position
//   - messages: the ordered messages of each entry
//   - settings: the settings record as JSON
//
// Save applies a domain.ChangeSet in a single transaction, so only the entries a
// mutation touched are rewritten.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.daybook/data/journal.db
package sqlite
