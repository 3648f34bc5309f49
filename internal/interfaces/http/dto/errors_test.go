package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_STATUS"))
	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode("NO_TRANSACTION"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_CURRENCY"))
	// Unknown codes pass through untouched
	assert.Equal(t, "ERR_CUSTOM", NormalizeErrorCode("ERR_CUSTOM"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Invoice not found", "req-1")
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}
