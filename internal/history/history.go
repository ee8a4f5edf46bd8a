// Package history is the append-only local audit store behind the CLI's
// --history flag: one row per validate_schema call, persisted to a
// pure-Go SQLite database so the CLI needs no cgo toolchain to build.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Run is one recorded validate_schema invocation.
type Run struct {
	ID               int64
	TimestampMs      int64
	SourceHash       string
	IsValid          bool
	ErrorCount       int
	WarningCount     int
	SchemaGroupCount int
	ElapsedMs        int64
}

// Store wraps a SQLite-backed audit log.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp_ms INTEGER NOT NULL,
	source_hash TEXT NOT NULL,
	is_valid INTEGER NOT NULL,
	error_count INTEGER NOT NULL,
	warning_count INTEGER NOT NULL,
	schema_group_count INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL
);`

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one run, purely additive — it is never consulted by the
// validation pipeline itself.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (timestamp_ms, source_hash, is_valid, error_count, warning_count, schema_group_count, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.TimestampMs, run.SourceHash, boolToInt(run.IsValid), run.ErrorCount, run.WarningCount, run.SchemaGroupCount, run.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// Recent returns the most recent n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp_ms, source_hash, is_valid, error_count, warning_count, schema_group_count, elapsed_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var isValid int
		if err := rows.Scan(&r.ID, &r.TimestampMs, &r.SourceHash, &isValid, &r.ErrorCount, &r.WarningCount, &r.SchemaGroupCount, &r.ElapsedMs); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.IsValid = isValid != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// HashSource returns the stable source-content hash a Run is stamped
// with, so the CLI never has to store raw source text in the audit log.
func HashSource(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
