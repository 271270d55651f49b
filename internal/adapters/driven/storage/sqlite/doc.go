// Package sqlite provides a unified SQLite-based implementation of the
// storage driven ports.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. One database
// connection backs three store interfaces:
//
//   - RecordStore: normalised crawl records
//   - CrawlStateStore: resumable crawl cursors
//   - ReportStore: finished analysis runs
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.orca/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
