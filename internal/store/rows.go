package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	apperrors "remit835/internal/errors"
	"remit835/pkg/contracts/domain"
)

// indexColumns are the canonical columns indexed for common queries.
var indexColumns = []string{
	domain.ColRUN,
	domain.ColFilename,
	domain.ColEffectivePayer,
	domain.ColProviderName,
	domain.ColClaimNumber,
	domain.ColClaimPayerControl,
	domain.ColClaimStatus,
	domain.ColSVCStartDate,
	domain.ColClaimStartDate,
	domain.ColCheckTraceNumber,
	domain.ColISAControlNumber,
}

// InsertRows stores consolidated rows for a processed file. Rows whose UID
// already exists are skipped. Returns (inserted, skipped).
func (s *Store) InsertRows(rows []domain.Row, fileID int64) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Collect every column name across all rows, not just the first,
	// so late-appearing columns are never silently dropped.
	fieldSet := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			fieldSet[col] = true
		}
	}
	if err := s.addColumnsIfNeeded(fieldSet); err != nil {
		return 0, 0, err
	}

	// Fixed column order for the whole batch
	columnToField := make(map[string]string, len(fieldSet))
	var dataColumns []string
	for field := range fieldSet {
		safe := sanitizeColumn(field)
		if s.columns[safe] {
			dataColumns = append(dataColumns, safe)
			columnToField[safe] = field
		}
	}
	sort.Strings(dataColumns)

	quoted := make([]string, 0, len(dataColumns)+2)
	quoted = append(quoted, `"row_uid"`, `"processed_file_id"`)
	placeholders := []string{"?", "?"}
	for _, col := range dataColumns {
		quoted = append(quoted, fmt.Sprintf("%q", col))
		placeholders = append(placeholders, "?")
	}
	insertSQL := fmt.Sprintf("INSERT OR IGNORE INTO remit_rows (%s) VALUES (%s)",
		strings.Join(quoted, ","), strings.Join(placeholders, ","))

	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, apperrors.NewStorageError("failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		tx.Rollback()
		return 0, 0, apperrors.NewStorageError("failed to prepare insert", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		values := make([]any, 0, len(dataColumns)+2)
		values = append(values, rowUID(row), fileID)
		for _, col := range dataColumns {
			values = append(values, row.Get(columnToField[col]))
		}

		res, err := stmt.Exec(values...)
		if err != nil {
			tx.Rollback()
			return 0, 0, apperrors.NewStorageError("failed to insert row", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, apperrors.NewStorageError("failed to commit rows", err)
	}

	// Indexes are created after the first bulk insert
	if !s.indexed {
		if err := s.createIndexes(); err != nil {
			return 0, 0, err
		}
		s.indexed = true
	}

	skipped := len(rows) - inserted
	slog.Info("Stored rows",
		slog.Int64("file_id", fileID),
		slog.Int("inserted", inserted),
		slog.Int("skipped", skipped))

	return inserted, skipped, nil
}

// addColumnsIfNeeded creates TEXT columns for any field not yet in the table.
func (s *Store) addColumnsIfNeeded(fields map[string]bool) error {
	for field := range fields {
		safe := sanitizeColumn(field)
		if s.columns[safe] {
			continue
		}
		if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE remit_rows ADD COLUMN %q TEXT`, safe)); err != nil {
			return apperrors.NewStorageError("failed to add column "+safe, err)
		}
		s.columns[safe] = true
		slog.Debug("Added row column", slog.String("column", safe), slog.String("field", field))
	}
	return nil
}

func (s *Store) createIndexes() error {
	for _, field := range indexColumns {
		safe := sanitizeColumn(field)
		if !s.columns[safe] {
			continue
		}
		stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s ON remit_rows(%q)`, safe, safe)
		if _, err := s.db.Exec(stmt); err != nil {
			return apperrors.NewStorageError("failed to create index on "+safe, err)
		}
	}
	return nil
}

// RowsByClaim returns stored rows for a claim number, selecting only the
// requested canonical columns.
func (s *Store) RowsByClaim(claimNumber string, columns []string) ([]domain.Row, error) {
	return s.queryRows(fmt.Sprintf("%q = ?", sanitizeColumn(domain.ColClaimNumber)),
		[]any{claimNumber}, columns)
}

// RowsByRUN returns stored rows for a RUN, selecting only the requested
// canonical columns.
func (s *Store) RowsByRUN(run string, columns []string) ([]domain.Row, error) {
	return s.queryRows(fmt.Sprintf("%q = ?", sanitizeColumn(domain.ColRUN)),
		[]any{run}, columns)
}

func (s *Store) queryRows(where string, args []any, columns []string) ([]domain.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(columns) == 0 {
		columns = domain.Columns()
	}

	selected := make([]string, 0, len(columns))
	kept := make([]string, 0, len(columns))
	for _, col := range columns {
		safe := sanitizeColumn(col)
		if !s.columns[safe] {
			continue
		}
		selected = append(selected, fmt.Sprintf("%q", safe))
		kept = append(kept, col)
	}
	if len(selected) == 0 {
		return nil, apperrors.NewStorageError("no known columns selected", nil)
	}

	query := fmt.Sprintf("SELECT %s FROM remit_rows WHERE %s ORDER BY id",
		strings.Join(selected, ","), where)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query rows", err)
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		cells := make([]any, len(kept))
		for i := range cells {
			cells[i] = new(sql.NullString)
		}
		if err := rows.Scan(cells...); err != nil {
			return nil, apperrors.NewStorageError("failed to scan row", err)
		}

		row := make(domain.Row, len(kept))
		for i, col := range kept {
			if v := cells[i].(*sql.NullString); v.Valid && v.String != "" {
				row[col] = v.String
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
