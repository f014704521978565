package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remit835/pkg/contracts/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "remit835.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func storeRows() []domain.Row {
	return []domain.Row{
		{
			domain.ColISAControlNumber: "000000905",
			domain.ColFilename:         "remit_20240115.835",
			domain.ColClaimNumber:      "2565914",
			domain.ColClaimOccurrence:  "1",
			domain.ColSEQ:              "1-1",
			domain.ColRUN:              "25-65914",
			domain.ColEffectivePayer:   "EMEDNY",
			domain.ColSVCProcedureCode: "A0427",
			domain.ColSVCChargeAmount:  "300",
		},
		{
			domain.ColISAControlNumber: "000000905",
			domain.ColFilename:         "remit_20240115.835",
			domain.ColClaimNumber:      "2565914",
			domain.ColClaimOccurrence:  "1",
			domain.ColSEQ:              "1-2",
			domain.ColRUN:              "25-65914",
			domain.ColEffectivePayer:   "EMEDNY",
			domain.ColSVCProcedureCode: "A0425",
			domain.ColSVCChargeAmount:  "150",
		},
	}
}

func TestSanitizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RUN", "RUN"},
		{"PICK UP ZIP", "PICK_UP_ZIP"},
		{"CLM_CAS1_Group_L2100_CAS", "CLM_CAS1_Group_L2100_CAS"},
		{"835S", "_835S"},
		{"", "_column"},
		{"FH_OON$Final", "FH_OON_Final"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeColumn(tt.in), tt.in)
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.835")
	require.NoError(t, os.WriteFile(path, []byte("ISA*00*"), 0644))

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	again, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestFileDeduplication(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.IsFileProcessed("abc123")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := s.RegisterFile(FileInfo{
		Filename:      "remit_20240115.835",
		Hash:          "abc123",
		ControlNumber: "000000905",
		SizeBytes:     2048,
		RecordCount:   2,
		SourceFolder:  "/data/input",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	info, found, err := s.IsFileProcessed("abc123")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "remit_20240115.835", info.Filename)
	assert.Equal(t, 2, info.RecordCount)

	// Same hash again violates the unique constraint
	_, err = s.RegisterFile(FileInfo{Filename: "copy.835", Hash: "abc123"})
	assert.Error(t, err)
}

func TestInsertRowsDedupe(t *testing.T) {
	s := openTestStore(t)

	fileID, err := s.RegisterFile(FileInfo{Filename: "a.835", Hash: "h1", RecordCount: 2})
	require.NoError(t, err)

	inserted, skipped, err := s.InsertRows(storeRows(), fileID)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, skipped)

	// Re-inserting the same rows is a no-op
	inserted, skipped, err = s.InsertRows(storeRows(), fileID)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 2, skipped)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount)
	assert.Equal(t, 2, stats.RowCount)
}

func TestRowsByRUN(t *testing.T) {
	s := openTestStore(t)

	fileID, err := s.RegisterFile(FileInfo{Filename: "a.835", Hash: "h1"})
	require.NoError(t, err)

	_, _, err = s.InsertRows(storeRows(), fileID)
	require.NoError(t, err)

	rows, err := s.RowsByRUN("25-65914", []string{
		domain.ColSEQ, domain.ColSVCProcedureCode, domain.ColSVCChargeAmount,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A0427", rows[0].Get(domain.ColSVCProcedureCode))
	assert.Equal(t, "1-2", rows[1].Get(domain.ColSEQ))

	rows, err = s.RowsByRUN("99-99999", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsByClaim(t *testing.T) {
	s := openTestStore(t)

	fileID, err := s.RegisterFile(FileInfo{Filename: "a.835", Hash: "h1"})
	require.NoError(t, err)

	_, _, err = s.InsertRows(storeRows(), fileID)
	require.NoError(t, err)

	rows, err := s.RowsByClaim("2565914", []string{domain.ColRUN})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "25-65914", rows[0].Get(domain.ColRUN))
}

func TestProcessedFilesOrdering(t *testing.T) {
	s := openTestStore(t)

	_, err := s.RegisterFile(FileInfo{Filename: "first.835", Hash: "h1"})
	require.NoError(t, err)
	_, err = s.RegisterFile(FileInfo{Filename: "second.835", Hash: "h2"})
	require.NoError(t, err)

	files, err := s.ProcessedFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "second.835", files[0].Filename)
	assert.Equal(t, "first.835", files[1].Filename)
}

func TestUnknownColumnSurvives(t *testing.T) {
	s := openTestStore(t)

	fileID, err := s.RegisterFile(FileInfo{Filename: "a.835", Hash: "h1"})
	require.NoError(t, err)

	rows := storeRows()
	rows[0]["UNEXPECTED_QUALIFIER_X9"] = "hello"

	inserted, _, err := s.InsertRows(rows, fileID)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	got, err := s.RowsByRUN("25-65914", []string{"UNEXPECTED_QUALIFIER_X9"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Get("UNEXPECTED_QUALIFIER_X9"))
}
