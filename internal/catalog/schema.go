// Package catalog provides the SQLite catalog of event files discovered in
// a dataset tree.
package catalog

// Schema definitions for the catalog database (catalog.db). The catalog is
// the source of truth for what event files a dataset holds, keyed by
// dataset root and relative path.

// CreateEventFilesTableSQL creates the core event_files table. One row per
// discovered event source, carrying its task label, shape, content
// fingerprint, and the snappy-compressed annotations JSON captured at index
// time.
const CreateEventFilesTableSQL = `
CREATE TABLE IF NOT EXISTS event_files (
    root TEXT NOT NULL,
    rel_path TEXT NOT NULL,
    kind TEXT NOT NULL,
    task TEXT NOT NULL DEFAULT '',
    row_count INTEGER NOT NULL,
    column_count INTEGER NOT NULL,
    fingerprint TEXT NOT NULL,
    annotations BLOB,
    indexed_at INTEGER NOT NULL,
    PRIMARY KEY (root, rel_path)
)`

// CreateEventFilesIndexesSQL creates indexes for the common lookup patterns.
var CreateEventFilesIndexesSQL = []string{
	// Task-based listing
	`CREATE INDEX IF NOT EXISTS idx_event_files_task ON event_files(task)`,

	// Dedup / change detection by content fingerprint
	`CREATE INDEX IF NOT EXISTS idx_event_files_fingerprint ON event_files(fingerprint)`,
}

// CreateScansTableSQL creates the scans table recording each indexing pass.
const CreateScansTableSQL = `
CREATE TABLE IF NOT EXISTS scans (
    scan_id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    files_seen INTEGER NOT NULL DEFAULT 0,
    files_indexed INTEGER NOT NULL DEFAULT 0,
    files_failed INTEGER NOT NULL DEFAULT 0,
    started_at INTEGER NOT NULL,
    finished_at INTEGER
)`

// AllSchemaSQL returns all SQL statements needed to initialize the catalog.
func AllSchemaSQL() []string {
	statements := []string{
		CreateEventFilesTableSQL,
		CreateScansTableSQL,
	}
	statements = append(statements, CreateEventFilesIndexesSQL...)
	return statements
}
