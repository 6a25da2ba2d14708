// Package errors provides structured error types for polaprint.
//
// Every failure that crosses a package boundary carries a [Code] so callers
// can tell a missing raster from a decoder failure without string matching:
//   - NOT_LOADED: a pipeline step ran before an image was loaded
//   - DECODE_ERROR, ENCODE_ERROR, GEOMETRY_ERROR, BACKEND_ERROR: raised by the
//     raster backend, the backend's own error is kept as the cause
//   - IO_ERROR: the output location could not be prepared
//   - INVALID_*: bad user input
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", ext)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap a backend failure
//	err := errors.Wrap(errors.ErrCodeDecode, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine state
	ErrCodeNotLoaded Code = "NOT_LOADED"

	// Raster backend errors
	ErrCodeDecode   Code = "DECODE_ERROR"
	ErrCodeEncode   Code = "ENCODE_ERROR"
	ErrCodeGeometry Code = "GEOMETRY_ERROR"
	ErrCodeBackend  Code = "BACKEND_ERROR"

	// Filesystem errors
	ErrCodeIO Code = "IO_ERROR"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// ErrNotLoaded is returned by engine operations invoked before a raster exists.
var ErrNotLoaded = New(ErrCodeNotLoaded, "no image loaded")

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types the code prefix is dropped and the cause appended.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// IsBackend reports whether err originated in the raster backend.
func IsBackend(err error) bool {
	switch GetCode(err) {
	case ErrCodeDecode, ErrCodeEncode, ErrCodeGeometry, ErrCodeBackend:
		return true
	}
	return false
}
