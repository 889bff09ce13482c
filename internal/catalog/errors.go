package catalog

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrHTTP            = errors.New("http error")
	ErrNetwork         = errors.New("network error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknown         = errors.New("unknown error")
)

// Error is the failure type returned by every Client operation.
type Error struct {
	Kind       error
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// HTTPStatus exposes the status code to the retry policy.
func (e *Error) HTTPStatus() int {
	return e.StatusCode
}

func unauthorizedError() *Error {
	return &Error{
		Kind:       ErrUnauthorized,
		Message:    "TMDB API token is not configured. Please add your Read Access Token.",
		StatusCode: 401,
	}
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{
		Kind:       ErrInvalidArgument,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: 400,
	}
}

// InvalidArgument builds an ErrInvalidArgument failure for callers that
// validate input outside the client.
func InvalidArgument(format string, args ...any) error {
	return invalidArgument(format, args...)
}

func networkError(err error) *Error {
	return &Error{
		Kind:    ErrNetwork,
		Message: "Network error. Please check your internet connection.",
		Err:     err,
	}
}

func unknownError(err error) *Error {
	return &Error{
		Kind:    ErrUnknown,
		Message: "An unexpected error occurred while fetching data.",
		Err:     err,
	}
}

// Message returns the human-readable message carried by err, or "" when
// err carries none.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
