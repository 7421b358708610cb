package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Request errors
	ErrorTypeInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeInvalidState   ErrorType = "INVALID_STATE"
	ErrorTypeUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrorTypeRateLimit      ErrorType = "RATE_LIMIT"

	// Dependency errors
	ErrorTypeUpstream ErrorType = "UPSTREAM"
	ErrorTypeTimeout  ErrorType = "TIMEOUT"

	// Everything else
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewInvalidRequestError creates an error for client data that fails validation
func NewInvalidRequestError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewInvalidStateError creates an error for an entity missing a linked resource
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidState,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewUpstreamError creates an error for a failed call to the database or the
// assistant platform. A status of 0 maps to 500.
func NewUpstreamError(message string, status int) *AppError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		HTTPStatus: status,
	}
}

// NewDatabaseError creates an upstream error for a failed storage operation
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    fmt.Sprintf("database operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsInvalidRequest checks if an error is an invalid request error
func IsInvalidRequest(err error) bool {
	return IsType(err, ErrorTypeInvalidRequest)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return IsType(err, ErrorTypeInvalidState)
}

// IsUpstream checks if an error is an upstream error
func IsUpstream(err error) bool {
	return IsType(err, ErrorTypeUpstream)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return IsType(err, ErrorTypeTimeout)
}
