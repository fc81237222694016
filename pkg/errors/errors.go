// Package errors provides structured error types for jsonderef.
//
// Every failure raised while loading, indexing, or dereferencing a schema set
// carries a machine-readable [Code] next to its human-readable message, so the
// CLI, the HTTP API, and library callers can all branch on the same taxonomy.
//
// # Error Codes
//
// Schema defects (the input set is rejected in full):
//   - INVALID_SCHEMA: a document is not an object with a string $id
//   - INVALID_SCHEMA_URI: a $id cannot be parsed or carries a fragment
//   - DUPLICATE_SCHEMA_URI: two documents normalize to the same $id
//   - MALFORMED_POINTER: a JSON Pointer fragment has invalid syntax
//   - NON_STRING_REFERENCE: a $ref value is not a string
//   - UNRESOLVABLE_REFERENCE: a $ref points at nothing
//   - DISALLOWED_ADDITIONAL_PROPERTIES: a $ref node has siblings and merging is off
//   - CYCLIC_REFERENCE: resolving a location requires itself
//
// Outer layers add INVALID_INPUT, INVALID_FORMAT, FILE_NOT_FOUND,
// INTERNAL_ERROR and UNSUPPORTED.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateSchemaURI, "duplicate schema for URI %q", uri)
//	if errors.Is(err, errors.ErrCodeDuplicateSchemaURI) {
//	    // Handle duplicate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidSchemaURI, parseErr, "cannot parse %q", uri)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Schema set defects
	ErrCodeInvalidSchema                  Code = "INVALID_SCHEMA"
	ErrCodeInvalidSchemaURI               Code = "INVALID_SCHEMA_URI"
	ErrCodeDuplicateSchemaURI             Code = "DUPLICATE_SCHEMA_URI"
	ErrCodeMalformedPointer               Code = "MALFORMED_POINTER"
	ErrCodeNonStringReference             Code = "NON_STRING_REFERENCE"
	ErrCodeUnresolvableReference          Code = "UNRESOLVABLE_REFERENCE"
	ErrCodeDisallowedAdditionalProperties Code = "DISALLOWED_ADDITIONAL_PROPERTIES"
	ErrCodeCyclicReference                Code = "CYCLIC_REFERENCE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
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

// IsSchemaDefect reports whether err describes a structural defect of the
// input schema set, as opposed to an I/O or internal failure.
func IsSchemaDefect(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidSchema,
		ErrCodeInvalidSchemaURI,
		ErrCodeDuplicateSchemaURI,
		ErrCodeMalformedPointer,
		ErrCodeNonStringReference,
		ErrCodeUnresolvableReference,
		ErrCodeDisallowedAdditionalProperties,
		ErrCodeCyclicReference:
		return true
	}
	return false
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	if IsSchemaDefect(err) {
		return http.StatusUnprocessableEntity
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
