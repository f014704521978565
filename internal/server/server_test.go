package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remit835/internal/config"
	"remit835/internal/pipeline"
	"remit835/internal/store"
	"remit835/pkg/contracts/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     10 * time.Second,
			ShutdownTimeout: time.Second,
			RunTimeout:      time.Minute,
		},
		Security: config.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
		},
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	outputDir := filepath.Join(dataDir, "output")
	reportsDir := filepath.Join(dataDir, "reports")

	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       dataDir,
		InputDir:      filepath.Join(dataDir, "input"),
		OutputDir:     outputDir,
		ReportsDir:    reportsDir,
		CacheDir:      filepath.Join(dataDir, "cache"),
		LogsDir:       filepath.Join(base, "logs"),

		TripsFile: filepath.Join(dataDir, "TRIPS.csv"),
		RatesFile: filepath.Join(dataDir, "RATES.xlsx"),

		DatabaseFile: filepath.Join(dataDir, "remit835.db"),

		ConsolidatedCSV:      filepath.Join(outputDir, "remittance_consolidated.csv"),
		CompactCSV:           filepath.Join(outputDir, "remittance_compact.csv"),
		ValidationReportText: filepath.Join(reportsDir, "validation_report.txt"),
		ValidationReportHTML: filepath.Join(reportsDir, "validation_report.html"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func openTestStore(t *testing.T, paths *config.Paths) *store.Store {
	t.Helper()
	st, err := store.Open(paths.DatabaseFile)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestServer(t *testing.T, paths *config.Paths, st *store.Store) *Server {
	t.Helper()
	cfg := testConfig()
	runner := pipeline.NewRunner(paths, st, nil, slog.Default())
	runs := NewRunManager(runner, cfg.Server.RunTimeout, slog.Default())
	return New(cfg, paths, st, runs, nil, nil, slog.Default())
}

func doJSON(t *testing.T, srv *Server, method, target string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestHealthEndpoint(t *testing.T) {
	paths := testPaths(t)
	st := openTestStore(t, paths)
	srv := newTestServer(t, paths, st)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", payload["status"])

	checks, ok := payload["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", checks["database"])
}

func TestHealthEndpointWithoutStore(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	checks := payload["checks"].(map[string]any)
	assert.Equal(t, "disabled", checks["database"])
}

func TestVersionEndpoint(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/version", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, payload["version"])
	assert.NotEmpty(t, payload["go_version"])
}

func seedStore(t *testing.T, st *store.Store) {
	t.Helper()
	fileID, err := st.RegisterFile(store.FileInfo{
		Filename:      "remit_20240115.835",
		Hash:          strings.Repeat("a", 64),
		ControlNumber: "000000905",
		SizeBytes:     2048,
		RecordCount:   2,
		SourceFolder:  "input",
	})
	require.NoError(t, err)

	rows := []domain.Row{
		{
			domain.ColISAControlNumber: "000000905",
			domain.ColClaimNumber:      "2565914",
			domain.ColClaimOccurrence:  "1",
			domain.ColSEQ:              "1-1",
			domain.ColSVCProcedureCode: "A0427",
		},
		{
			domain.ColISAControlNumber: "000000905",
			domain.ColClaimNumber:      "2565914",
			domain.ColClaimOccurrence:  "1",
			domain.ColSEQ:              "1-2",
			domain.ColSVCProcedureCode: "A0425",
		},
	}
	inserted, _, err := st.InsertRows(rows, fileID)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
}

func TestFilesAndStatsEndpoints(t *testing.T) {
	paths := testPaths(t)
	st := openTestStore(t, paths)
	seedStore(t, st)
	srv := newTestServer(t, paths, st)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/files", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), payload["count"])

	rec, payload = doJSON(t, srv, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), payload["file_count"])
	assert.Equal(t, float64(2), payload["row_count"])
}

func TestFilesEndpointWithoutStore(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/files", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestErrorResponsesUseProblemDetails(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/files", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "/errors/service-unavailable", payload["type"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), payload["status"])
	assert.NotEmpty(t, payload["trace_id"])

	rec, payload = doJSON(t, srv, http.MethodGet, "/api/reports/validation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/errors/report/not-found", payload["type"])

	rec, payload = doJSON(t, srv, http.MethodGet, "/api/no-such-route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/errors/not-found", payload["type"])
}

func TestStartRunRejectsMalformedBody(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	rec, payload := doJSON(t, srv, http.MethodPost, "/api/runs", `{"redact":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", payload["error_code"])
}

func TestClaimEndpoint(t *testing.T) {
	paths := testPaths(t)
	st := openTestStore(t, paths)
	seedStore(t, st)
	srv := newTestServer(t, paths, st)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/claims/2565914", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), payload["count"])

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/claims/9999999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportsListAndMissingArtifacts(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	rec, payload := doJSON(t, srv, http.MethodGet, "/api/reports", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	reports, ok := payload["reports"].([]any)
	require.True(t, ok)
	require.Len(t, reports, 5)
	first := reports[0].(map[string]any)
	assert.Equal(t, "consolidated", first["name"])
	assert.Equal(t, false, first["exists"])

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/reports/consolidated", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/reports/validation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportsServeGeneratedCSV(t *testing.T) {
	paths := testPaths(t)
	srv := newTestServer(t, paths, nil)

	csv := "RUN,HCPCS\n1,A0427\n"
	require.NoError(t, os.WriteFile(paths.ConsolidatedCSV, []byte(csv), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/api/reports/consolidated", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "remittance_consolidated.csv")
	assert.Contains(t, rec.Body.String(), "A0427")
}

func TestStartRunEndpoint(t *testing.T) {
	paths := testPaths(t)
	st := openTestStore(t, paths)
	srv := newTestServer(t, paths, st)

	rec, payload := doJSON(t, srv, http.MethodPost, "/api/runs", `{"redact":false}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.NotEmpty(t, payload["run_id"])
	assert.Equal(t, "started", payload["status"])

	require.True(t, srv.runs.Wait(5*time.Second), "run did not finish")

	rec, payload = doJSON(t, srv, http.MethodGet, "/api/runs/latest", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, payload["running"])

	last, ok := payload["last_result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), last["files_found"])
}

func TestRunManagerRejectsConcurrentRuns(t *testing.T) {
	paths := testPaths(t)
	runner := pipeline.NewRunner(paths, nil, nil, slog.Default())
	runs := NewRunManager(runner, time.Minute, slog.Default())

	// Hold the manager in the running state without racing the real
	// pipeline goroutine.
	runs.mu.Lock()
	runs.running = true
	runs.activeRunID = "test-run"
	runs.mu.Unlock()

	_, err := runs.Start(pipeline.Options{})
	assert.ErrorIs(t, err, ErrRunInProgress)
}
