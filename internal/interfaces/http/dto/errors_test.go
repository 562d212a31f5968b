package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeNotAuthenticated, http.StatusUnauthorized},
		{shared.CodeUnauthorized, http.StatusForbidden},
		{shared.CodeRemoteError, http.StatusBadGateway},
		{shared.CodeDuplicateEntry, http.StatusConflict},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeInternal, http.StatusInternalServerError},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestIsNotice(t *testing.T) {
	assert.True(t, IsNotice(shared.CodeDuplicateEntry))
	assert.True(t, IsNotice(shared.CodeNotFound))
	assert.True(t, IsNotice(shared.CodeRemoteError))
	assert.False(t, IsNotice(shared.CodeUnauthorized))
	assert.False(t, IsNotice(shared.CodeValidation))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(shared.CodeDuplicateEntry, "Item is already in the list", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeDuplicateEntry, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.True(t, resp.Error.Notice)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "phone", Message: "This field is required"},
	}
	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeValidation, resp.Error.Code)
	assert.False(t, resp.Error.Notice)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestRedirectErrorResponseJSON(t *testing.T) {
	resp := NewRedirectErrorResponse(shared.CodeNotAuthenticated, "Sign in first", "req-1", "/signin?notice=NOT_AUTHENTICATED")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "/signin?notice=NOT_AUTHENTICATED", errObj["redirect_to"])
	assert.Equal(t, "NOT_AUTHENTICATED", errObj["code"])
	assert.NotContains(t, errObj, "notice")
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1}, 13, 3, 6)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	resp = NewSuccessResponseWithMeta(nil, 0, 1, 6)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}
