// ABOUTME: Typed error taxonomy for feed loading, parsing and XML generation
// ABOUTME: Every user-facing failure is an *Error carrying a Kind and a message

package feederr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindInvalidURL Kind = "INVALID_URL"
	KindFetch      Kind = "FETCH_ERROR"
	KindParse      Kind = "PARSE_ERROR"
	KindGeneration Kind = "GENERATION_ERROR"
)

// Error is the {message, type} value surfaced to callers. StatusCode is the
// upstream HTTP status for fetch failures that received a response, 0
// otherwise. Transport marks fetch failures where no response arrived.
// Errors are never mutated after creation.
type Error struct {
	Kind       Kind   `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Transport  bool   `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Validation creates a VALIDATION_ERROR.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// InvalidURL creates an INVALID_URL error with the default message when
// message is empty.
func InvalidURL(message string) *Error {
	if message == "" {
		message = "Please enter a valid HTTP or HTTPS URL."
	}
	return New(KindInvalidURL, message)
}

// Fetch creates a FETCH_ERROR without an upstream status.
func Fetch(message string) *Error {
	return New(KindFetch, message)
}

// HTTPStatus creates a FETCH_ERROR for a non-2xx upstream response.
func HTTPStatus(code int, status string) *Error {
	return &Error{
		Kind:       KindFetch,
		Message:    fmt.Sprintf("Failed to fetch RSS feed: %s", status),
		StatusCode: code,
	}
}

// Network creates a FETCH_ERROR from a transport failure.
func Network(err error) *Error {
	msg := "An unexpected network error occurred"
	if err != nil {
		msg = "Network error: " + err.Error()
	}
	return &Error{Kind: KindFetch, Message: msg, Transport: true}
}

// Parse creates a PARSE_ERROR.
func Parse(message string) *Error {
	return New(KindParse, message)
}

// Generation creates a GENERATION_ERROR.
func Generation(message string) *Error {
	return New(KindGeneration, message)
}

// WithMessage returns a copy of e with a new message, keeping kind and status.
func (e *Error) WithMessage(message string) *Error {
	c := *e
	c.Message = message
	return &c
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return ""
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
