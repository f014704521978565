// Package exporter writes the CSV artifacts of a remittance processing run.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// RemitExporter: Generates the consolidated CSV (every canonical column with
// display headers) and the compact CSV (columns empty across all rows plus
// envelope and contact columns dropped).
//
// SummaryExporter: Aggregates consolidated rows into per-payer summary
// statistics and exports them as a summary CSV.
//
// Example usage:
//
//	remit := exporter.NewRemitExporter(paths)
//	err := remit.ExportConsolidated(rows, paths.ConsolidatedCSV)
//	err = remit.ExportCompact(rows, paths.CompactCSV)
//
//	summary := exporter.NewSummaryExporter(paths)
//	summaries := summary.GeneratePayerSummaries(rows)
//	err = summary.ExportPayerSummary(summaries, "payer_summary.csv")
package exporter
