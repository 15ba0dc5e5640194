package models

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation so every caller can render it the same way.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindDuplicate    Kind = "duplicate_reference"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindBadRequest   Kind = "bad_request"
	KindServer       Kind = "server_error"
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindBusy         Kind = "busy"
)

// Sentinels usable with errors.Is against any *Error.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrDuplicate    = &Error{Kind: KindDuplicate}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrServer       = &Error{Kind: KindServer}
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrTimeout      = &Error{Kind: KindTimeout}
	ErrBusy         = &Error{Kind: KindBusy}
)

// Error is the single failure shape surfaced by the gateway and the catalog.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields is only set for KindValidation and maps field name to message.
	Fields map[string]string
	cause  error
}

// NewError builds an Error wrapping an optional cause.
func NewError(kind Kind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, cause: cause}
}

// NewValidationError carries the complete set of field messages.
func NewValidationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("Validation failed on %d field(s)", len(fields)),
		Fields:  fields,
	}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether a user-initiated retry may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindServer, KindNetwork, KindTimeout, KindBusy:
		return true
	}
	return false
}

// AsError extracts an *Error, classifying anything else as a server error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindServer, 0, "An unexpected error occurred. Please try again.", err)
}
