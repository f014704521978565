package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "enrichment error type",
			errType:  ErrTypeEnrichment,
			expected: "ENRICHMENT",
		},
		{
			name:     "export error type",
			errType:  ErrTypeExport,
			expected: "EXPORT",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "permission error type",
			errType:  ErrTypePermission,
			expected: "PERMISSION",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "claim balance check failed",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] claim balance check failed",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "invalid interchange header",
				Cause:   fmt.Errorf("file shorter than 106 bytes"),
			},
			wantMessage: "[PARSING] invalid interchange header: file shorter than 106 bytes",
		},
		{
			name: "error with storage cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "database operation failed",
				Cause:   errors.New("table does not exist"),
			},
			wantMessage: "[STORAGE] database operation failed: table does not exist",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			assert.Equal(t, tt.wantMessage, got)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := NewParsingError("segment parse failed", cause)

	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)

	bare := NewAppValidationError("no cause")
	assert.Nil(t, bare.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad segment", nil).
		WithContext("file", "remit_20250101.835").
		WithContext("segment", "CLP")

	assert.Equal(t, "remit_20250101.835", err.Context["file"])
	assert.Equal(t, "CLP", err.Context["segment"])

	// WithContext on a nil map allocates
	raw := &AppError{Type: ErrTypeStorage, Message: "x"}
	raw.WithContext("key", 1)
	assert.Equal(t, 1, raw.Context["key"])
}

func TestAppError_Constructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"parsing", NewParsingError("m", cause), ErrTypeParsing},
		{"storage", NewStorageError("m", cause), ErrTypeStorage},
		{"enrichment", NewEnrichmentError("m", cause), ErrTypeEnrichment},
		{"export", NewExportError("m", cause), ErrTypeExport},
		{"validation", NewAppValidationError("m"), ErrTypeValidation},
		{"permission", NewPermissionError("m"), ErrTypePermission},
		{"config", NewConfigError("m", cause), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("rates workbook")
	assert.Equal(t, ErrTypeNotFound, err.Type)
	assert.Equal(t, "[NOT_FOUND] rates workbook not found", err.Error())
}
