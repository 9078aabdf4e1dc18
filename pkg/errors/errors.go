// Package errors provides structured error types for seqdiagram.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, web form and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - EXPORT_*: Serialization of a laid-out diagram failed
//   - INTERNAL_*: Unexpected internal errors
//
// A few validation failures have their own codes because callers react to
// them specifically (NO_DEVICES, LENGTH_MISMATCH, STEP_OUT_OF_RANGE).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLengthMismatch, "device %q has %d states, want %d", name, got, want)
//	if errors.IsValidation(err) {
//	    // Show the message next to the form
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExport, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidNumber     Code = "INVALID_NUMBER"
	ErrCodeInvalidStyle      Code = "INVALID_STYLE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidView       Code = "INVALID_VIEW"
	ErrCodeInvalidLanguage   Code = "INVALID_LANGUAGE"
	ErrCodeInvalidDefinition Code = "INVALID_DEFINITION"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeNoDevices         Code = "NO_DEVICES"
	ErrCodeLengthMismatch    Code = "LENGTH_MISMATCH"
	ErrCodeStepOutOfRange    Code = "STEP_OUT_OF_RANGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Export errors
	ErrCodeExport Code = "EXPORT_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// validationCodes lists the codes that describe bad caller input.
var validationCodes = map[Code]bool{
	ErrCodeInvalidInput:      true,
	ErrCodeInvalidNumber:     true,
	ErrCodeInvalidStyle:      true,
	ErrCodeInvalidFormat:     true,
	ErrCodeInvalidView:       true,
	ErrCodeInvalidLanguage:   true,
	ErrCodeInvalidDefinition: true,
	ErrCodeInvalidPath:       true,
	ErrCodeNoDevices:         true,
	ErrCodeLengthMismatch:    true,
	ErrCodeStepOutOfRange:    true,
}

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

// IsValidation reports whether err was caused by invalid caller input.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
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
