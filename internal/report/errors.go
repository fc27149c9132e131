package report

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a structured error response from the report store.
// Callers should prefer the predicate functions (IsNotFound,
// IsUnauthorized, …) over asserting on this type directly.
type APIError struct {
	operation  string
	statusCode int
	errorCode  int
	message    string
}

func (e *APIError) Error() string {
	if e.errorCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: [%d] %s", e.operation, e.statusCode, e.errorCode, e.message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

func newAPIError(operation string, statusCode, errorCode int, message string) *APIError {
	return &APIError{
		operation:  operation,
		statusCode: statusCode,
		errorCode:  errorCode,
		message:    message,
	}
}

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// ErrorCode returns the report store application error code.
func (e *APIError) ErrorCode() int { return e.errorCode }

// Message returns the human-readable error message.
func (e *APIError) Message() string { return e.message }

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is an API error with HTTP 401 status.
func IsUnauthorized(err error) bool { return HasStatusCode(err, http.StatusUnauthorized) }

// HasStatusCode reports whether err is an API error whose HTTP status matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}
