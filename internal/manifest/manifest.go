// Package manifest records text extractions in a SQLite database so that a
// library's cache state can be inspected between runs.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/citegraph/citegraph/internal/textcache"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Record is one row of the manifest: the latest extraction of a document.
type Record struct {
	Key             string    `json:"key"`
	Document        string    `json:"document"`
	TextPath        string    `json:"text_path"`
	Extractor       string    `json:"extractor"`
	DocumentModTime time.Time `json:"document_mtime"`
	Bytes           int       `json:"bytes"`
	DurationMS      int64     `json:"duration_ms"`
	ExtractedAt     time.Time `json:"extracted_at"`
}

// Open opens or creates the manifest at path, creating parent directories.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS extractions (
			document TEXT PRIMARY KEY,
			key TEXT NOT NULL,
			text_path TEXT NOT NULL,
			extractor TEXT NOT NULL,
			document_mtime INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			extracted_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_extractions_key ON extractions(key);
	`
	_, err := db.Exec(schema)
	return err
}

// RecordExtraction stores ex, replacing any earlier row for the same document.
// It satisfies textcache.Recorder.
func (d *DB) RecordExtraction(ctx context.Context, ex textcache.Extraction) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO extractions (
			document, key, text_path, extractor,
			document_mtime, bytes, duration_ms, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document) DO UPDATE SET
			key = excluded.key,
			text_path = excluded.text_path,
			extractor = excluded.extractor,
			document_mtime = excluded.document_mtime,
			bytes = excluded.bytes,
			duration_ms = excluded.duration_ms,
			extracted_at = excluded.extracted_at
	`,
		ex.Document, ex.Key, ex.TextPath, ex.Extractor,
		ex.DocumentModTime.UnixNano(), ex.Bytes, ex.Duration.Milliseconds(), d.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recording extraction of %s: %w", ex.Key, err)
	}
	return nil
}

// List returns every record ordered by key, then document.
func (d *DB) List(ctx context.Context) ([]Record, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT key, document, text_path, extractor,
			document_mtime, bytes, duration_ms, extracted_at
		FROM extractions
		ORDER BY key, document
	`)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var docMtime, extractedAt int64
		if err := rows.Scan(&r.Key, &r.Document, &r.TextPath, &r.Extractor,
			&docMtime, &r.Bytes, &r.DurationMS, &extractedAt); err != nil {
			return nil, fmt.Errorf("scanning extraction: %w", err)
		}
		r.DocumentModTime = time.Unix(0, docMtime).UTC()
		r.ExtractedAt = time.Unix(0, extractedAt).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}
