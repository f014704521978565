package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"remit835/internal/config"
	apperrors "remit835/internal/errors"
)

// ReportsHandler serves the artifacts a processing run writes to disk
type ReportsHandler struct {
	paths  *config.Paths
	errs   *apperrors.ErrorHandler
	logger *slog.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(paths *config.Paths, errs *apperrors.ErrorHandler, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{
		paths:  paths,
		errs:   errs,
		logger: logger.With(slog.String("handler", "reports")),
	}
}

// Routes returns the reports router
func (h *ReportsHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/consolidated", h.Consolidated)
	r.Get("/compact", h.Compact)
	r.Get("/summary", h.Summary)
	r.Get("/validation", h.Validation)
	return r
}

// reportInfo describes one artifact for the listing endpoint
type reportInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Exists     bool      `json:"exists"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

func describeReport(name, path string) reportInfo {
	info := reportInfo{Name: name, Path: path}
	if stat, err := os.Stat(path); err == nil {
		info.Exists = true
		info.SizeBytes = stat.Size()
		info.ModifiedAt = stat.ModTime()
	}
	return info
}

// List handles GET /api/reports
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	reports := []reportInfo{
		describeReport("consolidated", h.paths.ConsolidatedCSV),
		describeReport("compact", h.paths.CompactCSV),
		describeReport("summary", h.paths.GetOutputPath("payer_summary.csv")),
		describeReport("validation_text", h.paths.ValidationReportText),
		describeReport("validation_html", h.paths.ValidationReportHTML),
	}
	render.JSON(w, r, map[string]any{"reports": reports})
}

// serveCSV streams a CSV artifact as a download
func (h *ReportsHandler) serveCSV(w http.ResponseWriter, r *http.Request, path string) {
	if _, err := os.Stat(path); err != nil {
		h.errs.HandleError(w, r, apperrors.ErrReportNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// Consolidated handles GET /api/reports/consolidated
func (h *ReportsHandler) Consolidated(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, h.paths.ConsolidatedCSV)
}

// Compact handles GET /api/reports/compact
func (h *ReportsHandler) Compact(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, h.paths.CompactCSV)
}

// Summary handles GET /api/reports/summary
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, h.paths.GetOutputPath("payer_summary.csv"))
}

// Validation handles GET /api/reports/validation, serving the text
// report by default and the HTML report with ?format=html.
func (h *ReportsHandler) Validation(w http.ResponseWriter, r *http.Request) {
	path := h.paths.ValidationReportText
	contentType := "text/plain; charset=utf-8"
	if r.URL.Query().Get("format") == "html" {
		path = h.paths.ValidationReportHTML
		contentType = "text/html; charset=utf-8"
	}

	if _, err := os.Stat(path); err != nil {
		h.errs.HandleError(w, r, apperrors.ErrReportNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}
