package exporter

import (
	"fmt"
	"sort"
	"strconv"

	"remit835/internal/config"
	"remit835/pkg/contracts/domain"
)

// PayerSummary represents aggregate statistics for one payer across a batch.
type PayerSummary struct {
	Payer         string
	Claims        int
	ServiceLines  int
	Checks        int
	TotalCharged  float64
	TotalPaid     float64
	TotalAllowed  float64
	LastCheckDate string
}

// SummaryExporter handles payer-level summary report generation
type SummaryExporter struct {
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a new payer summary exporter
func NewSummaryExporter(paths *config.Paths) *SummaryExporter {
	return &SummaryExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// GeneratePayerSummaries creates summary statistics from consolidated rows
func (s *SummaryExporter) GeneratePayerSummaries(rows []domain.Row) []PayerSummary {
	// Group by payer
	payerRows := make(map[string][]domain.Row)
	for _, row := range rows {
		payer := row.Get(domain.ColEffectivePayer)
		if payer == "" {
			payer = row.Get(domain.ColPayerName)
		}
		payerRows[payer] = append(payerRows[payer], row)
	}

	var summaries []PayerSummary
	for payer, group := range payerRows {
		summary := PayerSummary{Payer: payer}

		claims := make(map[string]bool)
		checks := make(map[string]bool)

		for _, row := range group {
			// A claim repeats across its service rows; count it once per
			// occurrence within its transaction.
			claimKey := row.Get(domain.ColFilename) + "|" +
				row.Get(domain.ColSTControlNumber) + "|" +
				row.Get(domain.ColClaimNumber) + "|" +
				row.Get(domain.ColClaimOccurrence)
			claims[claimKey] = true

			if trace := row.Get(domain.ColCheckTraceNumber); trace != "" {
				checks[trace] = true
			}

			if row.IsServiceLine() {
				summary.ServiceLines++
				summary.TotalCharged += parseMoney(row.Get(domain.ColSVCChargeAmount))
				summary.TotalPaid += parseMoney(row.Get(domain.ColSVCPaymentAmount))
			} else {
				summary.TotalCharged += parseMoney(row.Get(domain.ColClaimCharge))
				summary.TotalPaid += parseMoney(row.Get(domain.ColClaimPayment))
			}
			summary.TotalAllowed += parseMoney(row.Get(domain.ColAllowedAmount))

			// CCYYMMDD dates compare correctly as strings
			if date := row.Get(domain.ColCheckEffectiveDate); date > summary.LastCheckDate {
				summary.LastCheckDate = date
			}
		}

		summary.Claims = len(claims)
		summary.Checks = len(checks)
		summaries = append(summaries, summary)
	}

	return summaries
}

// ExportPayerSummary exports a summary CSV with statistics for all payers
func (s *SummaryExporter) ExportPayerSummary(summaries []PayerSummary, outputPath string) error {
	// Sort by payer name
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Payer < summaries[j].Payer
	})

	var csvRecords [][]string
	for _, summary := range summaries {
		csvRecords = append(csvRecords, s.summaryToCSVRow(summary))
	}

	headers := []string{
		"Payer", "Claims", "ServiceLines", "Checks",
		"TotalCharged", "TotalPaid", "TotalAllowed", "LastCheckDate",
	}

	if err := s.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords); err != nil {
		return fmt.Errorf("failed to write payer summary: %w", err)
	}
	return nil
}

// summaryToCSVRow converts a payer summary to a CSV row
func (s *SummaryExporter) summaryToCSVRow(summary PayerSummary) []string {
	return []string{
		summary.Payer,
		formatInt(summary.Claims),
		formatInt(summary.ServiceLines),
		formatInt(summary.Checks),
		formatFloat(summary.TotalCharged),
		formatFloat(summary.TotalPaid),
		formatFloat(summary.TotalAllowed),
		summary.LastCheckDate,
	}
}

// parseMoney parses a monetary cell, treating blanks and junk as zero.
func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
