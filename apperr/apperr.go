// Package apperr defines the error taxonomy shared by every core
// component and consumed by the httpapi layer's status mapping.
package apperr

import "errors"

// Kind classifies an error the way spec.md §7 requires it surfaced.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error wraps a cause with a Kind and an optional machine-readable Code
// (e.g. "set_invalid", "tiebreak_missing") for validation failures.
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Msg: msg}
}

// KindOf extracts the Kind of err, defaulting to KindInternal when err
// is not an *Error (or wraps no *Error).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

var (
	ErrNotFound     = New(KindNotFound, "resource not found")
	ErrForbidden    = New(KindForbidden, "forbidden")
	ErrUnauthorized = New(KindUnauthorized, "unauthorized")
)
