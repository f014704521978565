package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	assert.Equal(t, "Invalid request format", err.Error())
}

func TestAPIError_Render(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "Resource not found")

	req := httptest.NewRequest(http.MethodGet, "/api/reports/missing", nil)
	w := httptest.NewRecorder()

	renderErr := err.Render(w, req)
	assert.NoError(t, renderErr)
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]string{"file": "remit_20250101.835"}
	err := NewWithDetails(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "cannot process file", details)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", err.ErrorCode)
	assert.Equal(t, details, err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"validation failed", ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"file not found", ErrFileNotFound, http.StatusNotFound, "FILE_NOT_FOUND"},
		{"report not found", ErrReportNotFound, http.StatusNotFound, "REPORT_NOT_FOUND"},
		{"run active", ErrRunActive, http.StatusConflict, "RUN_ACTIVE"},
		{"run failed", ErrRunFailed, http.StatusInternalServerError, "RUN_FAILED"},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"filesystem", ErrFileSystem, http.StatusInternalServerError, "FILESYSTEM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("input_dir", "directory does not exist")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "input_dir", detail.Field)
	assert.Equal(t, "directory does not exist", detail.Message)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("Validation report")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "Validation report not found", err.Message)
}

func TestErrRunExecution(t *testing.T) {
	cause := errors.New("rates workbook unreadable")
	err := ErrRunExecution(cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "RUN_EXECUTION_FAILED", err.ErrorCode)
	assert.Equal(t, "rates workbook unreadable", err.Details)
}

func TestFileSystemError(t *testing.T) {
	cause := errors.New("permission denied")
	err := FileSystemError("output write", cause)

	assert.Equal(t, "FILESYSTEM_ERROR", err.ErrorCode)
	assert.Contains(t, err.Message, "output write")
	assert.Equal(t, "permission denied", err.Details)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrFileNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "FILE_NOT_FOUND", resp.Error.ErrorCode)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "rates_path", Message: "required"},
		{Field: "trips_path", Message: "required"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestErrPanic(t *testing.T) {
	err := ErrPanic("index out of range")

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	rec, ok := err.Details.(PanicRecovery)
	require.True(t, ok)
	assert.Equal(t, "index out of range", rec.Message)
}
