package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound    = NewDomainError("NOT_FOUND", "Resource not found")
	ErrLockTimeout = NewDomainError("LOCK_TIMEOUT", "Could not acquire row lock within the configured timeout")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_ERROR", message)
}

// IsRetryable reports whether the error is transient and the caller may retry
// the whole operation. Only lock timeouts qualify; business-rule violations
// are permanent. The check unwraps, so errors annotated with %w keep their
// retryability.
func IsRetryable(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrLockTimeout.Code
}

// CodeOf returns the domain error code, unwrapping as needed, or the empty
// string for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
