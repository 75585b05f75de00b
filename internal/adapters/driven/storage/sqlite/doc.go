// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: uploaded documents and their summaries
//   - VectorStore: chunk text and embeddings, ranked by exact cosine distance
//   - AnswerLog: question and answer history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.askdoc/data/askdoc.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
