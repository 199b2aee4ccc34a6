package rp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// redirectMessage is the message of every error built from a 3xx response.
const redirectMessage = "Redirection responses are not expected. Please check if server is running properly"

// unparsableMessage replaces an error body that could not be read as text.
const unparsableMessage = "Failed to parse response as String"

// ErrorMessage is the decoded body of a Report Portal error response.
type ErrorMessage struct {
	ErrorCode        int    `json:"errorCode,omitempty"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`

	// Cause is the decoding failure that led to this message, if any.
	Cause error `json:"-"`
}

// String renders the populated fields, e.g. "[40410] Launch not found".
func (m ErrorMessage) String() string {
	var parts []string
	if m.Message != "" {
		parts = append(parts, m.Message)
	}
	if m.Error != "" {
		parts = append(parts, "error="+m.Error)
	}
	if m.ErrorDescription != "" {
		parts = append(parts, "error_description="+m.ErrorDescription)
	}
	s := strings.Join(parts, " ")
	if m.ErrorCode != 0 {
		s = "[" + strconv.Itoa(m.ErrorCode) + "] " + s
	}
	return s
}

// ClientError is returned for every response that is not 2xx. Callers should
// prefer the predicate functions (IsNotFound, IsRedirect, etc.) over
// asserting on this type directly.
type ClientError struct {
	operation  string
	statusCode int
	message    ErrorMessage
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

// Unwrap returns the decoding failure recorded in the error message.
func (e *ClientError) Unwrap() error { return e.message.Cause }

func newClientError(operation string, statusCode int, message ErrorMessage) *ClientError {
	return &ClientError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
	}
}

func newRedirectError(operation string, statusCode int) *ClientError {
	return newClientError(operation, statusCode, ErrorMessage{Message: redirectMessage})
}

// StatusCode returns the HTTP status code from the response.
func (e *ClientError) StatusCode() int { return e.statusCode }

// ErrorMessage returns the decoded error body.
func (e *ClientError) ErrorMessage() ErrorMessage { return e.message }

// ErrorCode returns the Report Portal application error code.
func (e *ClientError) ErrorCode() int { return e.message.ErrorCode }

// Message returns the human-readable error message.
func (e *ClientError) Message() string { return e.message.Message }

// Operation returns a short description of the API call that failed.
func (e *ClientError) Operation() string { return e.operation }

// IsNotFound reports whether err is a client error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is a client error with HTTP 401 status.
func IsUnauthorized(err error) bool { return HasStatusCode(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a client error with HTTP 403 status.
func IsForbidden(err error) bool { return HasStatusCode(err, http.StatusForbidden) }

// IsRedirect reports whether err was caused by a 3xx response.
func IsRedirect(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.statusCode >= 300 && clientErr.statusCode < 400
}

// IsServerError reports whether err was caused by a 5xx response.
func IsServerError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.statusCode >= 500 && clientErr.statusCode < 600
}

// HasStatusCode reports whether err is a client error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.statusCode == code
}

// HasErrorCode reports whether err is a client error whose RP error code matches.
func HasErrorCode(err error, code int) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.message.ErrorCode == code
}
