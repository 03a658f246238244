// Package errors carries machine-readable codes through izzi's error chains.
//
// The placement engine, the dataset readers and the HTTP API all return
// *Error values. The CLI prints UserMessage, the server maps the code to a
// status and echoes it in the response body.
//
// Codes prefixed INVALID_ (and DUPLICATE_ID) are input problems. The subset
// reported by IsPrecondition are caller bugs in the placement engine, such
// as a negative radius or an empty angular range, and never come with a
// partial layout.
//
//	err := errors.New(errors.ErrCodeInvalidRadius, "base radius must be positive, got %g", r)
//	errors.Is(fmt.Errorf("layout: %w", err), errors.ErrCodeInvalidRadius) // true
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidID       Code = "INVALID_ID"
	ErrCodeDuplicateID     Code = "DUPLICATE_ID"
	ErrCodeInvalidValue    Code = "INVALID_VALUE"
	ErrCodeInvalidValueMax Code = "INVALID_VALUE_MAX"
	ErrCodeInvalidRadius   Code = "INVALID_RADIUS"
	ErrCodeInvalidRange    Code = "INVALID_RANGE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded failure with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets the standard errors.Is match on code alone:
// errors.Is(err, &Error{Code: ErrCodeInvalidRange}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Cause == nil && t.Code == e.Code
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error whose cause is err.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsPrecondition reports whether err is a caller-side precondition
// violation rather than an I/O or internal failure.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidRadius, ErrCodeInvalidRange, ErrCodeInvalidValueMax,
		ErrCodeInvalidValue, ErrCodeDuplicateID, ErrCodeInvalidID:
		return true
	}
	return false
}

// UserMessage returns the error without codes, for printing to people.
// The first *Error in the chain supplies the message, followed by its
// cause when there is one.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}
