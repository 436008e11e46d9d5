package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang/snappy"
	_ "github.com/mattn/go-sqlite3"

	"github.com/neurotab/neurotab/internal/errors"
	"github.com/neurotab/neurotab/pkg/types"
)

// FileRecord represents one catalogued event file.
type FileRecord struct {
	Root        string
	RelPath     string
	Kind        string
	Task        string
	RowCount    int64
	ColumnCount int64
	Fingerprint string
	Annotations map[string]types.Annotations
	IndexedAt   time.Time
}

// ScanRecord represents one indexing pass over a dataset root.
type ScanRecord struct {
	ScanID       string
	Root         string
	FilesSeen    int64
	FilesIndexed int64
	FilesFailed  int64
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Catalog stores event file metadata in SQLite.
type Catalog struct {
	db     *sql.DB // Write connection (single writer)
	readDB *sql.DB // Read connection pool
	dbPath string
	mu     sync.Mutex // Write-only lock
}

// Open opens (creating if necessary) the catalog at dbPath and applies the
// schema.
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.NewCatalogError(errors.CodeCatalogOpenFailed,
			fmt.Sprintf("opening %s", dbPath), err)
	}
	db.SetMaxOpenConns(1) // Single writer
	db.SetMaxIdleConns(1)

	for _, stmt := range AllSchemaSQL() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.NewCatalogError(errors.CodeCatalogOpenFailed,
				fmt.Sprintf("initializing schema of %s", dbPath), err)
		}
	}

	readDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		db.Close()
		return nil, errors.NewCatalogError(errors.CodeCatalogOpenFailed,
			fmt.Sprintf("opening read connection to %s", dbPath), err)
	}
	readDB.SetMaxOpenConns(4)
	readDB.SetMaxIdleConns(4)
	readDB.SetConnMaxLifetime(5 * time.Minute)

	return &Catalog{db: db, readDB: readDB, dbPath: dbPath}, nil
}

// Close closes the catalog database connections.
func (c *Catalog) Close() error {
	rerr := c.readDB.Close()
	werr := c.db.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// RegisterFile upserts one event file. Registering an unchanged file (same
// fingerprint) is a no-op; a changed fingerprint replaces the stored row.
func (c *Catalog) RegisterFile(ctx context.Context, rec *FileRecord) error {
	blob, err := encodeAnnotations(rec.Annotations)
	if err != nil {
		return errors.NewCatalogError(errors.CodeScanFailed,
			fmt.Sprintf("encoding annotations of %s", rec.RelPath), err)
	}

	indexedAt := rec.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO event_files (root, rel_path, kind, task, row_count, column_count, fingerprint, annotations, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(root, rel_path) DO UPDATE SET
			kind = excluded.kind,
			task = excluded.task,
			row_count = excluded.row_count,
			column_count = excluded.column_count,
			fingerprint = excluded.fingerprint,
			annotations = excluded.annotations,
			indexed_at = excluded.indexed_at
		WHERE excluded.fingerprint <> event_files.fingerprint`,
		rec.Root, rec.RelPath, rec.Kind, rec.Task, rec.RowCount, rec.ColumnCount,
		rec.Fingerprint, blob, indexedAt.Unix())
	if err != nil {
		return errors.NewCatalogError(errors.CodeScanFailed,
			fmt.Sprintf("registering %s", rec.RelPath), err)
	}
	return nil
}

// GetFile retrieves one catalogued file by root and relative path.
// Returns nil when the file is not catalogued.
func (c *Catalog) GetFile(ctx context.Context, root, relPath string) (*FileRecord, error) {
	row := c.readDB.QueryRowContext(ctx, `
		SELECT root, rel_path, kind, task, row_count, column_count, fingerprint, annotations, indexed_at
		FROM event_files WHERE root = ? AND rel_path = ?`, root, relPath)

	rec, err := scanFileRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// FindByTask returns all catalogued files with the given task label, ordered
// by relative path.
func (c *Catalog) FindByTask(ctx context.Context, task string) ([]*FileRecord, error) {
	return c.queryFiles(ctx, `
		SELECT root, rel_path, kind, task, row_count, column_count, fingerprint, annotations, indexed_at
		FROM event_files WHERE task = ? ORDER BY root, rel_path`, task)
}

// ListFiles returns all catalogued files under root, ordered by relative
// path.
func (c *Catalog) ListFiles(ctx context.Context, root string) ([]*FileRecord, error) {
	return c.queryFiles(ctx, `
		SELECT root, rel_path, kind, task, row_count, column_count, fingerprint, annotations, indexed_at
		FROM event_files WHERE root = ? ORDER BY rel_path`, root)
}

func (c *Catalog) queryFiles(ctx context.Context, query string, args ...any) ([]*FileRecord, error) {
	rows, err := c.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewCatalogError(errors.CodeScanFailed, "querying event files", err)
	}
	defer rows.Close()

	var out []*FileRecord
	for rows.Next() {
		rec, err := scanFileRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// BeginScan records the start of an indexing pass.
func (c *Catalog) BeginScan(ctx context.Context, scanID, root string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO scans (scan_id, root, started_at) VALUES (?, ?, ?)`,
		scanID, root, time.Now().Unix())
	if err != nil {
		return errors.NewCatalogError(errors.CodeScanFailed, "recording scan start", err)
	}
	return nil
}

// FinishScan records the completion counters of an indexing pass.
func (c *Catalog) FinishScan(ctx context.Context, scanID string, seen, indexed, failed int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx, `
		UPDATE scans SET files_seen = ?, files_indexed = ?, files_failed = ?, finished_at = ?
		WHERE scan_id = ?`,
		seen, indexed, failed, time.Now().Unix(), scanID)
	if err != nil {
		return errors.NewCatalogError(errors.CodeScanFailed, "recording scan finish", err)
	}
	return nil
}

// rowScanner matches *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFileRecord(row rowScanner) (*FileRecord, error) {
	var rec FileRecord
	var blob []byte
	var indexedAt int64

	err := row.Scan(&rec.Root, &rec.RelPath, &rec.Kind, &rec.Task, &rec.RowCount,
		&rec.ColumnCount, &rec.Fingerprint, &blob, &indexedAt)
	if err != nil {
		return nil, err
	}
	rec.IndexedAt = time.Unix(indexedAt, 0)

	rec.Annotations, err = decodeAnnotations(blob)
	if err != nil {
		return nil, errors.NewCatalogError(errors.CodeScanFailed,
			fmt.Sprintf("decoding annotations of %s", rec.RelPath), err)
	}
	return &rec, nil
}

// encodeAnnotations stores the column annotations as snappy-compressed JSON.
func encodeAnnotations(ann map[string]types.Annotations) ([]byte, error) {
	if ann == nil {
		return nil, nil
	}
	data, err := json.Marshal(ann)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

func decodeAnnotations(blob []byte) (map[string]types.Annotations, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, err
	}
	var ann map[string]types.Annotations
	if err := json.Unmarshal(data, &ann); err != nil {
		return nil, err
	}
	return ann, nil
}
