// Package errors provides structured error types for the Parti engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Specification and input validation failures
//   - INFEASIBLE_* / EMPTY_* / ENVELOPE_*: Geometry synthesis failures (hard, never partial)
//   - GATE_*: Consistency-gate failures surfaced per panel
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSpec, "floor count must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidSpec) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "decode panel %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Specification and input validation errors
	ErrCodeInvalidSpec      Code = "INVALID_SPEC"
	ErrCodeInvalidSite      Code = "INVALID_SITE"
	ErrCodeInvalidProgram   Code = "INVALID_PROGRAM"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeInvalidFootprint Code = "INVALID_FOOTPRINT"

	// Geometry synthesis errors
	ErrCodeInfeasiblePacking Code = "INFEASIBLE_PACKING"
	ErrCodeEnvelopeExpansion Code = "ENVELOPE_EXPANSION"
	ErrCodeEmptyFloor        Code = "EMPTY_FLOOR"
	ErrCodeStairGeneration   Code = "STAIR_GENERATION"
	ErrCodeFacadeProjection  Code = "FACADE_PROJECTION"
	ErrCodeModelInvalid      Code = "MODEL_INVALID"

	// Consistency-gate errors
	ErrCodeGateFingerprint Code = "GATE_FINGERPRINT"
	ErrCodeGateCompliance  Code = "GATE_COMPLIANCE"
	ErrCodeGateSanity      Code = "GATE_SANITY"

	// Resource errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeDesignNotFound Code = "DESIGN_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeTimeout     Code = "TIMEOUT"
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
