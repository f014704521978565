package exporter

import (
	"fmt"
	"strings"

	"remit835/internal/config"
	"remit835/pkg/contracts/domain"
)

// RemitExporter generates the consolidated and compact remittance CSV files.
type RemitExporter struct {
	csvWriter *CSVWriter
}

// NewRemitExporter creates a new remittance CSV exporter
func NewRemitExporter(paths *config.Paths) *RemitExporter {
	return &RemitExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportConsolidated writes all rows to a single consolidated CSV file with
// display column headers. Every canonical column appears, in canonical order,
// even when no row populates it.
func (r *RemitExporter) ExportConsolidated(rows []domain.Row, outputPath string) error {
	columns := domain.Columns()

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Values(columns))
	}

	if err := r.csvWriter.WriteSimpleCSV(outputPath, domain.DisplayHeaders(columns), records); err != nil {
		return fmt.Errorf("failed to write consolidated CSV: %w", err)
	}
	return nil
}

// ExportConsolidatedStreaming writes the consolidated CSV one row at a time
// for large batches.
func (r *RemitExporter) ExportConsolidatedStreaming(rows []domain.Row, outputPath string) error {
	columns := domain.Columns()

	stream, err := r.csvWriter.CreateStreamWriter(outputPath, domain.DisplayHeaders(columns))
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for _, row := range rows {
		if err := stream.WriteRecord(row.Values(columns)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// ExportCompact writes a reduced CSV that keeps only the columns carrying
// data: columns that are empty across every row are dropped, as are the
// envelope and payer contact columns regardless of content.
func (r *RemitExporter) ExportCompact(rows []domain.Row, outputPath string) error {
	columns := compactColumns(rows)

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Values(columns))
	}

	if err := r.csvWriter.WriteSimpleCSV(outputPath, domain.DisplayHeaders(columns), records); err != nil {
		return fmt.Errorf("failed to write compact CSV: %w", err)
	}
	return nil
}

// compactColumns returns the canonical columns that survive compaction,
// in canonical order.
func compactColumns(rows []domain.Row) []string {
	populated := make(map[string]bool)
	for _, row := range rows {
		for col, value := range row {
			if value != "" {
				populated[col] = true
			}
		}
	}

	var columns []string
	for _, col := range domain.Columns() {
		if !populated[col] {
			continue
		}
		if strings.HasPrefix(col, "ENV_") || contactColumns[col] {
			continue
		}
		columns = append(columns, col)
	}
	return columns
}

// contactColumns are the PER contact columns excluded from the compact CSV.
var contactColumns = map[string]bool{
	domain.ColPayerContactBL:   true,
	domain.ColPayerContactBLNo: true,
	domain.ColPayerContactCX:   true,
	domain.ColPayerContactCXNo: true,
	domain.ColPayerContactIC:   true,
	domain.ColPayerContactICNo: true,
}
