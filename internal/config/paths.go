package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	InputDir      string
	OutputDir     string
	ReportsDir    string
	CacheDir      string
	LogsDir       string

	// Input reference files
	TripsFile string
	RatesFile string

	// Database
	DatabaseFile string

	// Well-known output files
	ConsolidatedCSV      string
	CompactCSV           string
	ValidationReportText string
	ValidationReportHTML string
	ValidationReportJSON string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are relative to the executable directory, never the working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	//   <exe dir>/
	//     ├── data/
	//     │   ├── input/      (835 remittance files)
	//     │   ├── output/     (consolidated CSVs)
	//     │   ├── reports/    (validation reports)
	//     │   ├── cache/      (temporary files)
	//     │   ├── TRIPS.csv
	//     │   ├── RATES.xlsx
	//     │   └── remit835.db
	//     └── logs/

	dataDir := filepath.Join(exeDir, "data")
	outputDir := filepath.Join(dataDir, "output")
	reportsDir := filepath.Join(dataDir, "reports")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		InputDir:      filepath.Join(dataDir, "input"),
		OutputDir:     outputDir,
		ReportsDir:    reportsDir,
		CacheDir:      filepath.Join(dataDir, "cache"),
		LogsDir:       filepath.Join(exeDir, "logs"),

		TripsFile: filepath.Join(dataDir, "TRIPS.csv"),
		RatesFile: filepath.Join(dataDir, "RATES.xlsx"),

		DatabaseFile: filepath.Join(dataDir, "remit835.db"),

		ConsolidatedCSV:      filepath.Join(outputDir, "remittance_consolidated.csv"),
		CompactCSV:           filepath.Join(outputDir, "remittance_compact.csv"),
		ValidationReportText: filepath.Join(reportsDir, "validation_report.txt"),
		ValidationReportHTML: filepath.Join(reportsDir, "validation_report.html"),
		ValidationReportJSON: filepath.Join(reportsDir, "validation_report.json"),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.InputDir,
		p.OutputDir,
		p.ReportsDir,
		p.CacheDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetInputPath returns the path for a remittance input file
func (p *Paths) GetInputPath(filename string) string {
	return filepath.Join(p.InputDir, filename)
}

// GetOutputPath returns the path for an output file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetDatedConsolidatedCSVPath returns the path for a dated consolidated CSV
// (e.g. remittance_consolidated_20250131.csv)
func (p *Paths) GetDatedConsolidatedCSVPath(date time.Time) string {
	filename := fmt.Sprintf("remittance_consolidated_%s.csv", date.Format("20060102"))
	return filepath.Join(p.OutputDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("input", p.InputDir),
			slog.String("output", p.OutputDir),
			slog.String("reports", p.ReportsDir),
			slog.String("cache", p.CacheDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("reference_files",
			slog.String("trips", p.TripsFile),
			slog.String("rates", p.RatesFile),
			slog.String("database", p.DatabaseFile),
		),
		slog.Group("output_files",
			slog.String("consolidated_csv", p.ConsolidatedCSV),
			slog.String("compact_csv", p.CompactCSV),
			slog.String("validation_report", p.ValidationReportText),
		))
}

// ValidateRequiredFiles checks if enrichment inputs exist and returns detailed error information
func (p *Paths) ValidateRequiredFiles() error {
	requiredFiles := map[string]string{
		"Trips": p.TripsFile,
		"Rates": p.RatesFile,
	}

	var missingFiles []string
	for name, path := range requiredFiles {
		if !FileExists(path) {
			missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", name, path))
		}
	}

	if len(missingFiles) > 0 {
		return fmt.Errorf("required files missing: %s", strings.Join(missingFiles, ", "))
	}

	return nil
}
