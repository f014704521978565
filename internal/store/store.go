// Package store persists processed remittance files and their consolidated
// rows in a local SQLite database. Files are deduplicated by content hash;
// rows are append-only with a composite unique identifier so re-running a
// batch never duplicates data.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	apperrors "remit835/internal/errors"
	"remit835/pkg/contracts/domain"
)

// Store wraps the SQLite database holding processed files and rows.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	dbPath  string
	columns map[string]bool
	indexed bool
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, apperrors.NewStorageError("failed to apply pragma", err)
		}
	}

	s := &Store{db: db, dbPath: path, columns: make(map[string]bool)}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("Store initialized", slog.String("path", path))
	return s, nil
}

// initialize creates the required tables and pre-creates the standard
// row columns so bulk inserts never hit per-row ALTER TABLE.
func (s *Store) initialize() error {
	filesTable := `
	CREATE TABLE IF NOT EXISTS processed_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		file_hash TEXT NOT NULL UNIQUE,
		interchange_control_number TEXT,
		file_size_bytes INTEGER,
		record_count INTEGER,
		processed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		source_folder TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_file_hash ON processed_files(file_hash);
	`

	rowsTable := `
	CREATE TABLE IF NOT EXISTS remit_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		row_uid TEXT NOT NULL UNIQUE,
		processed_file_id INTEGER,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (processed_file_id) REFERENCES processed_files(id)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_row_uid ON remit_rows(row_uid);
	CREATE INDEX IF NOT EXISTS idx_processed_file_id ON remit_rows(processed_file_id);
	`

	for _, table := range []string{filesTable, rowsTable} {
		if _, err := s.db.Exec(table); err != nil {
			return apperrors.NewStorageError("failed to create table", err)
		}
	}

	if err := s.loadColumns(); err != nil {
		return err
	}
	return s.createStandardColumns()
}

// loadColumns refreshes the cache of existing remit_rows columns.
func (s *Store) loadColumns() error {
	rows, err := s.db.Query("PRAGMA table_info(remit_rows)")
	if err != nil {
		return apperrors.NewStorageError("failed to read table info", err)
	}
	defer rows.Close()

	s.columns = make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    sql.NullString
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return apperrors.NewStorageError("failed to scan table info", err)
		}
		s.columns[name] = true
	}
	return rows.Err()
}

// createStandardColumns pre-creates a TEXT column for every canonical
// output column and its display header.
func (s *Store) createStandardColumns() error {
	var names []string
	for _, col := range domain.Columns() {
		names = append(names, col, domain.DisplayHeader(col))
	}

	added := 0
	for _, name := range names {
		safe := sanitizeColumn(name)
		if s.columns[safe] {
			continue
		}
		if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE remit_rows ADD COLUMN %q TEXT`, safe)); err != nil {
			return apperrors.NewStorageError("failed to add column "+safe, err)
		}
		s.columns[safe] = true
		added++
	}

	if added > 0 {
		slog.Debug("Pre-created row columns", slog.Int("count", added))
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

var unsafeColumnChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// sanitizeColumn maps a CSV header to a safe SQLite column name.
func sanitizeColumn(name string) string {
	safe := unsafeColumnChars.ReplaceAllString(name, "_")
	if safe == "" {
		return "_column"
	}
	if safe[0] >= '0' && safe[0] <= '9' {
		safe = "_" + safe
	}
	return safe
}

// HashFile computes the SHA256 hash of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to open file for hashing", err).
			WithContext("path", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", apperrors.NewStorageError("failed to hash file", err).
			WithContext("path", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileInfo describes a processed remittance file.
type FileInfo struct {
	ID            int64     `json:"id"`
	Filename      string    `json:"filename"`
	Hash          string    `json:"hash"`
	ControlNumber string    `json:"control_number"`
	SizeBytes     int64     `json:"size_bytes"`
	RecordCount   int       `json:"record_count"`
	ProcessedAt   time.Time `json:"processed_at"`
	SourceFolder  string    `json:"source_folder"`
}

// IsFileProcessed reports whether a file with the given content hash has
// already been imported.
func (s *Store) IsFileProcessed(hash string) (*FileInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info FileInfo
	err := s.db.QueryRow(`
		SELECT id, filename, file_hash, interchange_control_number,
		       file_size_bytes, record_count, processed_at, source_folder
		FROM processed_files WHERE file_hash = ?`, hash).
		Scan(&info.ID, &info.Filename, &info.Hash, &info.ControlNumber,
			&info.SizeBytes, &info.RecordCount, &info.ProcessedAt, &info.SourceFolder)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewStorageError("failed to look up processed file", err)
	}
	return &info, true, nil
}

// RegisterFile records a file as processed and returns its ID.
func (s *Store) RegisterFile(info FileInfo) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO processed_files
		(filename, file_hash, interchange_control_number, file_size_bytes,
		 record_count, source_folder)
		VALUES (?, ?, ?, ?, ?, ?)`,
		info.Filename, info.Hash, info.ControlNumber, info.SizeBytes,
		info.RecordCount, info.SourceFolder)
	if err != nil {
		return 0, apperrors.NewStorageError("failed to register file", err).
			WithContext("filename", info.Filename)
	}
	return res.LastInsertId()
}

// ProcessedFiles returns all processed files, newest first.
func (s *Store) ProcessedFiles() ([]FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, filename, file_hash, interchange_control_number,
		       file_size_bytes, record_count, processed_at, source_folder
		FROM processed_files ORDER BY processed_at DESC, id DESC`)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list processed files", err)
	}
	defer rows.Close()

	var out []FileInfo
	for rows.Next() {
		var info FileInfo
		if err := rows.Scan(&info.ID, &info.Filename, &info.Hash, &info.ControlNumber,
			&info.SizeBytes, &info.RecordCount, &info.ProcessedAt, &info.SourceFolder); err != nil {
			return nil, apperrors.NewStorageError("failed to scan processed file", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Statistics summarizes the database contents.
type Statistics struct {
	FileCount   int    `json:"file_count"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	FirstImport string `json:"first_import,omitempty"`
	LastImport  string `json:"last_import,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Stats returns database statistics.
func (s *Store) Stats() (*Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Statistics{ColumnCount: len(s.columns)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM processed_files").Scan(&stats.FileCount); err != nil {
		return nil, apperrors.NewStorageError("failed to count files", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM remit_rows").Scan(&stats.RowCount); err != nil {
		return nil, apperrors.NewStorageError("failed to count rows", err)
	}

	var first, last sql.NullString
	if err := s.db.QueryRow("SELECT MIN(processed_at), MAX(processed_at) FROM processed_files").
		Scan(&first, &last); err != nil {
		return nil, apperrors.NewStorageError("failed to read import range", err)
	}
	stats.FirstImport = first.String
	stats.LastImport = last.String

	if fi, err := os.Stat(s.dbPath); err == nil {
		stats.SizeBytes = fi.Size()
	}

	return stats, nil
}

// rowUID builds the composite unique identifier for a row: interchange
// control number, claim number, claim occurrence, and SEQ.
func rowUID(row domain.Row) string {
	return strings.Join([]string{
		row.Get(domain.ColISAControlNumber),
		row.Get(domain.ColClaimNumber),
		row.Get(domain.ColClaimOccurrence),
		row.Get(domain.ColSEQ),
	}, "|")
}
