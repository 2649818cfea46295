package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the different failure kinds surfaced by the API
type ErrorType string

const (
	ErrorTypeInvalidURL       ErrorType = "invalid_url"
	ErrorTypeInvalidMediaType ErrorType = "invalid_media_type"
	ErrorTypeUpstreamHTTP     ErrorType = "upstream_http"
	ErrorTypeUpstreamTimeout  ErrorType = "upstream_timeout"
	ErrorTypeNoMediaFound     ErrorType = "no_media_found"
	ErrorTypeProxyExtension   ErrorType = "unsupported_proxy_extension"
	ErrorTypeRateLimited      ErrorType = "rate_limited"
	ErrorTypeInternal         ErrorType = "internal"
)

// Error is a typed API error. Code carries the upstream HTTP status when
// the error originated from a third-party response, zero otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error with the given message.
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewUpstream creates an upstream HTTP error carrying the third-party
// status code.
func NewUpstream(code int, message string) *Error {
	return &Error{Type: ErrorTypeUpstreamHTTP, Message: message, Code: code}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for untyped
// errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fmt.Sprintf("Server error: %v", err)
}

// HTTPStatus maps an error to the HTTP status code reported to the caller.
// Bad input maps to 400, rate limiting to 429, everything that went wrong
// on our side of the request (upstream failures included) to 500.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeInvalidURL, ErrorTypeInvalidMediaType, ErrorTypeProxyExtension:
		return http.StatusBadRequest
	case ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
