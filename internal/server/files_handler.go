package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "remit835/internal/errors"
	"remit835/internal/store"
)

// FilesHandler serves the processed file history and stored rows
type FilesHandler struct {
	store  *store.Store
	errs   *apperrors.ErrorHandler
	logger *slog.Logger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(st *store.Store, errs *apperrors.ErrorHandler, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		store:  st,
		errs:   errs,
		logger: logger.With(slog.String("handler", "files")),
	}
}

func (h *FilesHandler) storeUnavailable(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		h.errs.HandleError(w, r, apperrors.ErrServiceUnavailable)
		return true
	}
	return false
}

// List handles GET /api/files
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.storeUnavailable(w, r) {
		return
	}

	files, err := h.store.ProcessedFiles()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list processed files",
			slog.String("error", err.Error()))
		h.errs.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{"files": files, "count": len(files)})
}

// Stats handles GET /api/stats
func (h *FilesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.storeUnavailable(w, r) {
		return
	}

	stats, err := h.store.Stats()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read store statistics",
			slog.String("error", err.Error()))
		h.errs.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, stats)
}

// Claim handles GET /api/claims/{claimNumber}
func (h *FilesHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if h.storeUnavailable(w, r) {
		return
	}

	claimNumber := chi.URLParam(r, "claimNumber")
	rows, err := h.store.RowsByClaim(claimNumber, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to query claim rows",
			slog.String("claim_number", claimNumber),
			slog.String("error", err.Error()))
		h.errs.HandleError(w, r, err)
		return
	}

	if len(rows) == 0 {
		h.errs.HandleError(w, r, apperrors.NotFoundError("claim "+claimNumber))
		return
	}

	render.JSON(w, r, map[string]any{
		"claim_number": claimNumber,
		"rows":         rows,
		"count":        len(rows),
	})
}
