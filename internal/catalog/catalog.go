package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record describes one ingested source document.
type Record struct {
	SourceFile string    `json:"source_file"`
	DocType    string    `json:"doc_type"`
	PageCount  int       `json:"page_count"`
	ChunkCount int       `json:"chunk_count"`
	Sections   []string  `json:"sections"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Catalog tracks which documents have been ingested and what came out
// of them. It lives alongside the vector store so the CLI can list
// sources without scanning the collection.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens the catalog database at the given path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging catalog: %w", err)
	}

	c := &Catalog{db: sqlDB}
	if err := c.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// OpenMemory creates an in-memory catalog (useful for testing).
func OpenMemory() (*Catalog, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory catalog: %w", err)
	}

	c := &Catalog{db: sqlDB}
	if err := c.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) migrate() error {
	_, err := c.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    source_file TEXT PRIMARY KEY,
    doc_type TEXT NOT NULL DEFAULT '',
    page_count INTEGER NOT NULL DEFAULT 0,
    chunk_count INTEGER NOT NULL DEFAULT 0,
    sections TEXT NOT NULL DEFAULT '[]',
    ingested_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(doc_type);
`

// Put inserts or replaces the record for a source file. Re-ingesting a
// document overwrites its previous entry.
func (c *Catalog) Put(ctx context.Context, rec Record) error {
	sections, err := json.Marshal(rec.Sections)
	if err != nil {
		return fmt.Errorf("encoding sections: %w", err)
	}

	ingestedAt := rec.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (source_file, doc_type, page_count, chunk_count, sections, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_file) DO UPDATE SET
			doc_type = excluded.doc_type,
			page_count = excluded.page_count,
			chunk_count = excluded.chunk_count,
			sections = excluded.sections,
			ingested_at = excluded.ingested_at`,
		rec.SourceFile, rec.DocType, rec.PageCount, rec.ChunkCount, string(sections), ingestedAt)
	if err != nil {
		return fmt.Errorf("recording document: %w", err)
	}
	return nil
}

// Get returns the record for a source file, or sql.ErrNoRows if it was
// never ingested.
func (c *Catalog) Get(ctx context.Context, sourceFile string) (Record, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT source_file, doc_type, page_count, chunk_count, sections, ingested_at
		FROM documents WHERE source_file = ?`, sourceFile)
	return scanRecord(row)
}

// List returns all records ordered by source file.
func (c *Catalog) List(ctx context.Context) ([]Record, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT source_file, doc_type, page_count, chunk_count, sections, ingested_at
		FROM documents ORDER BY source_file`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes all records.
func (c *Catalog) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var sections string
	if err := s.Scan(&rec.SourceFile, &rec.DocType, &rec.PageCount, &rec.ChunkCount, &sections, &rec.IngestedAt); err != nil {
		return Record{}, fmt.Errorf("scanning document: %w", err)
	}
	if err := json.Unmarshal([]byte(sections), &rec.Sections); err != nil {
		return Record{}, fmt.Errorf("decoding sections: %w", err)
	}
	return rec, nil
}
