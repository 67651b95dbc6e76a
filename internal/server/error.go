package server

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/toyz/docanno/internal/errors"
)

// HTTPError represents an HTTP error with a specific status code and message
type HTTPError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// toHTTPError maps handler errors onto status codes: failed lookups are
// 404, strict-mode syntax errors 422 with one detail per error.
func toHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr
	}

	var lookup *errors.LookupError
	if stderrors.As(err, &lookup) {
		return ErrNotFound(lookup.Error())
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.HasCode(errors.SyntaxErrorCode) {
		return &HTTPError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "malformed annotations",
			Details:    multi.Messages(),
		}
	}

	return NewHTTPError(http.StatusInternalServerError, err.Error())
}

