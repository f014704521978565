package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(includeStack bool) *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, includeStack)
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorToProblem_ContextErrors(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/current", nil)

	for _, err := range []error{context.DeadlineExceeded, context.Canceled} {
		problem := h.ErrorToProblem(err, req)
		assert.Equal(t, http.StatusGatewayTimeout, problem.Status)
		assert.Equal(t, TypeTimeout, problem.Type)
	}
}

func TestErrorToProblem_APIError(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/reports/latest", nil)

	tests := []struct {
		name     string
		err      *APIError
		wantType string
	}{
		{"file not found", ErrFileNotFound, TypeFileNotFound},
		{"report not found", ErrReportNotFound, TypeReportNotFound},
		{"run active", ErrRunActive, TypeRunActive},
		{"validation", ErrValidationFailed, TypeValidation},
		{"rate limit", ErrRateLimitExceeded, TypeRateLimit},
		{"internal", ErrInternalServer, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.err.StatusCode, problem.Status)
			assert.Equal(t, tt.err.ErrorCode, problem.Extensions["error_code"])
		})
	}
}

func TestErrorToProblem_AppError(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)

	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantType   string
	}{
		{"parsing", NewParsingError("bad ISA header", nil), http.StatusUnprocessableEntity, TypeFileCorrupted},
		{"validation", NewAppValidationError("claim out of balance"), http.StatusBadRequest, TypeValidation},
		{"not found", NewNotFoundError("trips file"), http.StatusNotFound, TypeNotFound},
		{"storage", NewStorageError("insert failed", nil), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, string(tt.err.Type), problem.Extensions["error_type"])
		})
	}
}

func TestErrorToProblem_StringMatching(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found text", errors.New("report not found"), http.StatusNotFound},
		{"run in progress", errors.New("run already in progress"), http.StatusConflict},
		{"rate limit text", errors.New("rate limit hit"), http.StatusTooManyRequests},
		{"unknown", errors.New("something broke"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
		})
	}
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/reports/2025-01", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, req, ErrReportNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeReportNotFound, body["type"])
	assert.Equal(t, "REPORT_NOT_FOUND", body["error_code"])
}

func TestHandleError_NilError(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, req, nil)
	assert.Empty(t, w.Body.Bytes())
}

func TestHandleError_IncludeStack(t *testing.T) {
	h := newTestHandler(true)
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, req, errors.New("boom"))

	body := decodeProblem(t, w)
	assert.Contains(t, body, "stack")
}

func TestMiddleware_PanicRecovery(t *testing.T) {
	h := newTestHandler(false)

	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected state")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()

	require.NotPanics(t, func() {
		handler.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(false)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	h.NotFound(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/reports", nil)
	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusConflict, TypeRunActive, "Run Already Active", "wait for completion", "/api/runs").
		WithExtension("retry_after", 30)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, TypeRunActive, decoded["type"])
	assert.Equal(t, float64(http.StatusConflict), decoded["status"])
	assert.Equal(t, float64(30), decoded["retry_after"])
}
