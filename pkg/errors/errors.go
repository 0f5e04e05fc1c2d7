// Package errors provides structured error types for blockgen.
//
// Every failure that can abort a generation pass carries a machine-readable
// [Code] so that the CLI, the HTTP server, and embedding editors can react to
// it without parsing messages:
//   - UNSUPPORTED_BLOCK_TYPE: a block type has no translation rule
//   - INVALID_PRECEDENCE_ORDER: a rule or caller supplied an out-of-range order
//   - MALFORMED_*_RESULT: a rule broke the value/statement result contract
//   - INVALID_*: input validation failures (language, workspace, path, config)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedBlock, "python has no rule for %q", typ)
//	if errors.Is(err, errors.ErrCodeUnsupportedBlock) {
//	    // missing language binding
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidWorkspace, origErr, "decode %s", path)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidLanguage  Code = "INVALID_LANGUAGE"
	ErrCodeInvalidWorkspace Code = "INVALID_WORKSPACE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Language binding errors, fatal to the current generation pass
	ErrCodeUnsupportedBlock   Code = "UNSUPPORTED_BLOCK_TYPE"
	ErrCodeInvalidOrder       Code = "INVALID_PRECEDENCE_ORDER"
	ErrCodeMalformedValue     Code = "MALFORMED_VALUE_RESULT"
	ErrCodeMalformedStatement Code = "MALFORMED_STATEMENT_RESULT"
	ErrCodeMalformedResult    Code = "MALFORMED_RESULT"
	ErrCodePassInProgress     Code = "PASS_IN_PROGRESS"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsBindingError reports whether err is one of the codes that indicate a
// broken language binding rather than bad user input.
func IsBindingError(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsupportedBlock, ErrCodeInvalidOrder,
		ErrCodeMalformedValue, ErrCodeMalformedStatement, ErrCodeMalformedResult:
		return true
	}
	return false
}
