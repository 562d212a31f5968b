package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes (shared.Code*) are sent as-is.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotAuthenticated: http.StatusUnauthorized,
	shared.CodeUnauthorized:     http.StatusForbidden,
	shared.CodeRemoteError:      http.StatusBadGateway,
	shared.CodeDuplicateEntry:   http.StatusConflict,
	shared.CodeNotFound:         http.StatusNotFound,
	shared.CodeValidation:       http.StatusBadRequest,
	shared.CodeInvalidInput:     http.StatusBadRequest,
	shared.CodeInternal:         http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// noticeCodes leave prior state intact; clients show them as a dismissible
// message rather than an error page
var noticeCodes = map[string]bool{
	shared.CodeDuplicateEntry: true,
	shared.CodeNotFound:       true,
	shared.CodeRemoteError:    true,
}

// IsNotice reports whether code is a non-blocking notice
func IsNotice(code string) bool {
	return noticeCodes[code]
}
