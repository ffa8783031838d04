// Package errors provides structured error types for erdgeo.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so callers can decide whether it is fatal for the run:
//
//   - INPUT_ENCODING: no configured encoding could decode the input (fatal)
//   - CONFIG: a style document was missing or malformed (fatal)
//   - TEMPLATE_LOAD: a relation template could not be loaded (skipped)
//   - SCHEMA_RENDER: the relations renderer failed (placeholder written, then returned)
//   - OUTPUT_WRITE: a generated file could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "problem with %q file %q", "colors", path)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOutputWrite, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the erdgeo error taxonomy.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInputEncoding Code = "INPUT_ENCODING"
	ErrCodeConfig        Code = "CONFIG"
	ErrCodeTemplateLoad  Code = "TEMPLATE_LOAD"

	// Generation errors
	ErrCodeSchemaRender Code = "SCHEMA_RENDER"
	ErrCodeOutputWrite  Code = "OUTPUT_WRITE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

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
// Only the outermost *Error in the chain is consulted.
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether an error with this code must stop the run.
// Template load failures are isolated per template and are never fatal.
func (c Code) Fatal() bool {
	switch c {
	case ErrCodeTemplateLoad:
		return false
	default:
		return true
	}
}
