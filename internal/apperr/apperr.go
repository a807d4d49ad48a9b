// Package apperr defines the coded errors returned to API callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code identifies the kind of failure.
type Code string

const (
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeTooManyRequests  Code = "TOO_MANY_REQUESTS"
	CodeInternal         Code = "INTERNAL"
)

// Sentinels for errors.Is checks. Matching is by Code only.
var (
	ErrUnauthorized     = &Error{Code: CodeUnauthorized}
	ErrValidationFailed = &Error{Code: CodeValidationFailed}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrTooManyRequests  = &Error{Code: CodeTooManyRequests}
	ErrInternal         = &Error{Code: CodeInternal}
)

// FieldError points at one offending input field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is a typed, coded failure.
type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s %s", f.Path, f.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Unauthorized reports a missing or invalid identity.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NotFound reports a missing row or one owned by another user.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Validation reports schema violations.
func Validation(fields ...FieldError) *Error {
	return &Error{Code: CodeValidationFailed, Message: "input validation failed", Fields: fields}
}

// TooManyRequests reports a rate limit rejection.
func TooManyRequests(message string) *Error {
	return &Error{Code: CodeTooManyRequests, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Err: err}
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// HTTPStatus maps a code onto a response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
