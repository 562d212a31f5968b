package shared

import "errors"

// Error codes shared by every bounded context
const (
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeRemoteError      = "REMOTE_ERROR"
	CodeDuplicateEntry   = "DUPLICATE_ENTRY"
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so wrapped and re-created errors compare equal
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying the original cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotAuthenticated = NewDomainError(CodeNotAuthenticated, "No valid session found")
	ErrUnauthorized     = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrRemote           = NewDomainError(CodeRemoteError, "The backend request did not complete")
	ErrDuplicateEntry   = NewDomainError(CodeDuplicateEntry, "Item is already in the list")
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation       = NewDomainError(CodeValidation, "Input failed validation")
	ErrInvalidInput     = NewDomainError(CodeInvalidInput, "Invalid input provided")
)

// CodeOf returns the domain error code carried by err, or CodeInternal
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
