package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)
	require.NotNil(t, paths)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "input"), paths.InputDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "output"), paths.OutputDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "TRIPS.csv"), paths.TripsFile)
	assert.Equal(t, filepath.Join(paths.DataDir, "RATES.xlsx"), paths.RatesFile)
	assert.Equal(t, filepath.Join(paths.DataDir, "remit835.db"), paths.DatabaseFile)
	assert.Equal(t, filepath.Join(paths.OutputDir, "remittance_consolidated.csv"), paths.ConsolidatedCSV)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()

	paths := &Paths{
		ExecutableDir: dir,
		DataDir:       filepath.Join(dir, "data"),
		InputDir:      filepath.Join(dir, "data", "input"),
		OutputDir:     filepath.Join(dir, "data", "output"),
		ReportsDir:    filepath.Join(dir, "data", "reports"),
		CacheDir:      filepath.Join(dir, "data", "cache"),
		LogsDir:       filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.InputDir)
	assert.DirExists(t, paths.OutputDir)
	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.CacheDir)
	assert.DirExists(t, paths.LogsDir)
}

func TestPaths_Helpers(t *testing.T) {
	paths := &Paths{
		ExecutableDir: "/app",
		InputDir:      "/app/data/input",
		OutputDir:     "/app/data/output",
		ReportsDir:    "/app/data/reports",
		LogsDir:       "/app/logs",
		CacheDir:      "/app/data/cache",
	}

	assert.Equal(t, "/app/data/input/remit.835", paths.GetInputPath("remit.835"))
	assert.Equal(t, "/app/data/output/out.csv", paths.GetOutputPath("out.csv"))
	assert.Equal(t, "/app/data/reports/report.txt", paths.GetReportPath("report.txt"))
	assert.Equal(t, "/app/logs/app.log", paths.GetLogPath("app.log"))
	assert.Equal(t, "/app/data/cache/tmp.bin", paths.GetCachePath("tmp.bin"))
	assert.Equal(t, "/app/extra", paths.GetRelativePath("extra"))
}

func TestPaths_GetDatedConsolidatedCSVPath(t *testing.T) {
	paths := &Paths{OutputDir: "/app/data/output"}
	date := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	got := paths.GetDatedConsolidatedCSVPath(date)
	assert.Equal(t, "/app/data/output/remittance_consolidated_20250131.csv", got)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "exists.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.txt")))
}

func TestPaths_ValidateRequiredFiles(t *testing.T) {
	dir := t.TempDir()
	trips := filepath.Join(dir, "TRIPS.csv")
	rates := filepath.Join(dir, "RATES.xlsx")

	paths := &Paths{TripsFile: trips, RatesFile: rates}

	err := paths.ValidateRequiredFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trips")
	assert.Contains(t, err.Error(), "Rates")

	require.NoError(t, os.WriteFile(trips, []byte("RUN,ZIP\n"), 0644))
	require.NoError(t, os.WriteFile(rates, []byte("x"), 0644))

	assert.NoError(t, paths.ValidateRequiredFiles())
}
