package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remit835/internal/config"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "output"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "reports"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "cache"), 0755))

	writer := NewCSVWriter(&config.Paths{
		OutputDir:  filepath.Join(tempDir, "output"),
		ReportsDir: filepath.Join(tempDir, "reports"),
		CacheDir:   filepath.Join(tempDir, "cache"),
	})

	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name        string
		filePath    string
		options     WriteOptions
		expectError bool
		validate    func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Claim", "Status", "Paid"},
				Records: [][]string{
					{"2565914", "1", "220.00"},
					{"2565915", "4", "0.00"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "Claim,Status,Paid", lines[0])
				assert.Equal(t, "2565914,1,220.00", lines[1])
				assert.Equal(t, "2565915,4,0.00", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers: []string{"HCPCS", "Charge"},
				Records: [][]string{
					{"A0427", "300.00"},
				},
				Append:    false,
				BOMPrefix: true,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Check for UTF-8 BOM
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				// Remove BOM and check content
				contentWithoutBOM := content[3:]
				lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
				assert.Equal(t, "HCPCS,Charge", lines[0])
				assert.Equal(t, "A0427,300.00", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Headers: nil,
				Records: [][]string{
					{"Data1", "Data2"},
					{"Data3", "Data4"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 2) // only records, no headers
				assert.Equal(t, "Data1,Data2", lines[0])
				assert.Equal(t, "Data3,Data4", lines[1])
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers:   []string{"Col1", "Col2"},
				Records:   [][]string{},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers
				assert.Equal(t, "Col1,Col2", lines[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath := filepath.Join(tempDir, "output", tt.filePath)

			err := writer.WriteCSV(tt.filePath, tt.options)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				tt.validate(t, fullPath)
			}
		})
	}
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	filePath := "append_test.csv"
	fullPath := filepath.Join(tempDir, "output", filePath)

	// Create initial file
	initialRecords := [][]string{
		{"Initial1", "Initial2"},
		{"Data1", "Data2"},
	}
	err := writer.WriteSimpleCSV(filePath, []string{"Col1", "Col2"}, initialRecords)
	require.NoError(t, err)

	// Append new records
	appendRecords := [][]string{
		{"Appended1", "Appended2"},
	}
	err = writer.AppendToCSV(filePath, appendRecords)
	assert.NoError(t, err)

	// Validate content
	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)

	// Remove BOM for easier parsing
	contentWithoutBOM := content[3:]
	lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")

	assert.Len(t, lines, 4) // header + 2 initial + 1 appended
	assert.Equal(t, "Col1,Col2", lines[0])
	assert.Equal(t, "Appended1,Appended2", lines[3])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, _ := setupTestEnv(t)

	tests := []struct {
		name           string
		inputPath      string
		expectedSuffix string
		isAbsolute     bool
	}{
		{
			name:       "absolute path",
			inputPath:  "/absolute/path/file.csv",
			isAbsolute: true,
		},
		{
			name:           "reports path",
			inputPath:      "reports/validation_report.csv",
			expectedSuffix: filepath.Join("reports", "validation_report.csv"),
		},
		{
			name:           "cache path",
			inputPath:      "cache/temp.csv",
			expectedSuffix: filepath.Join("cache", "temp.csv"),
		},
		{
			name:           "default to output",
			inputPath:      "remittance_consolidated.csv",
			expectedSuffix: filepath.Join("output", "remittance_consolidated.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := writer.resolvePath(tt.inputPath)

			if tt.isAbsolute {
				assert.Equal(t, tt.inputPath, result)
			} else {
				assert.True(t, strings.HasSuffix(result, tt.expectedSuffix))
			}
		})
	}
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	// Values that need CSV escaping survive a round trip
	headers := []string{"Payer", "Details", "Notes"}
	records := [][]string{
		{"ACME HEALTH, INC", "Adjustment \"WO\" reversed", "Line1\nLine2"},
		{"PLAN;A", "CO-45: $80.00; PR-1: $20.00", "Tabs\there"},
	}

	err := writer.WriteSimpleCSV("special_chars.csv", headers, records)
	assert.NoError(t, err)

	filePath := filepath.Join(tempDir, "output", "special_chars.csv")
	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	// Skip BOM
	bom := make([]byte, 3)
	_, err = file.Read(bom)
	require.NoError(t, err)

	reader := csv.NewReader(file)
	allRecords, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Len(t, allRecords, 3) // header + 2 records
	assert.Equal(t, headers, allRecords[0])
	assert.Equal(t, "ACME HEALTH, INC", allRecords[1][0])
	assert.Equal(t, "Adjustment \"WO\" reversed", allRecords[1][1])
	assert.Equal(t, "Line1\nLine2", allRecords[1][2])
	assert.Equal(t, "CO-45: $80.00; PR-1: $20.00", allRecords[2][1])
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream_test.csv", []string{"RUN", "SEQ", "Paid"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"25-65914", "1-1", "220.00"}))
	require.NoError(t, stream.WriteRecord([]string{"25-65914", "1-2", "130.00"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(filepath.Join(tempDir, "output", "stream_test.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "RUN,SEQ,Paid", lines[0])
	assert.Equal(t, "25-65914,1-1,220.00", lines[1])
	assert.Equal(t, "25-65914,1-2,130.00", lines[2])
}
