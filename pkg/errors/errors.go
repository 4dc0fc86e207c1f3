// Package errors defines the typed application errors handlers turn into HTTP
// responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeUpstream     ErrorType = "upstream"
	ErrorTypeUnavailable  ErrorType = "unavailable"
)

var statusCodes = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeInternal:     http.StatusInternalServerError,
	ErrorTypeNetwork:      http.StatusServiceUnavailable,
	ErrorTypeUpstream:     http.StatusBadGateway,
	ErrorTypeUnavailable:  http.StatusServiceUnavailable,
}

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func newAppError(t ErrorType, message, details string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		Details:    details,
		StatusCode: statusCodes[t],
		Cause:      cause,
	}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error. Only the first detail is
// kept.
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return newAppError(ErrorTypeValidation, message, detail, nil)
}

func NewNotFoundError(message string) *AppError {
	return newAppError(ErrorTypeNotFound, message, "", nil)
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(ErrorTypeUnauthorized, message, "", nil)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, message, "", cause)
}

// NewNetworkError is for a research backend that could not be reached at all.
func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, message, "", cause)
}

// NewUpstreamError is for a research backend that answered with a failure or
// a payload that does not validate.
func NewUpstreamError(message string, details string, cause error) *AppError {
	return newAppError(ErrorTypeUpstream, message, details, cause)
}

// NewUnavailableError is for a feature switched off by configuration.
func NewUnavailableError(message string) *AppError {
	return newAppError(ErrorTypeUnavailable, message, "", nil)
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
