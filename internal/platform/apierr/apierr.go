package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed failure handed from services to HTTP handlers. Status
// picks the response code, Code is a stable machine-readable slug and Err
// carries the human message.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation reports malformed or out-of-range input caught before the store.
func Validation(code, format string, args ...any) *Error {
	return New(http.StatusBadRequest, code, fmt.Errorf(format, args...))
}

// NotFound reports an absent or soft-deleted entry.
func NotFound(code, format string, args ...any) *Error {
	return New(http.StatusNotFound, code, fmt.Errorf(format, args...))
}

// Conflict reports a store-level uniqueness violation. The message stays
// generic on purpose; field detail is never surfaced.
func Conflict(err error) *Error {
	return New(http.StatusBadRequest, "duplicate_entry", &wrapped{msg: "an entry with the same identifying data already exists", cause: err})
}

// Internal reports an unexpected or transient store failure.
func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// TooLarge reports an upload over the configured byte ceiling.
func TooLarge(format string, args ...any) *Error {
	return New(http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Errorf(format, args...))
}

// StatusOf returns the HTTP status carried by err, or 500 for anything that
// is not an *Error.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the code carried by err, or "internal_error".
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal_error"
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.cause }
