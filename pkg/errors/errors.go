// Package errors defines custom error types and error handling utilities for
// the threshold service. Every error carries a stable code and the HTTP status
// it maps to at the REST boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ================================================================================
// Error Codes
// ================================================================================

// Code is the stable machine-readable error code.
type Code string

const (
	// CodeValidation indicates bad input shape or value (400)
	CodeValidation Code = "validation_error"

	// CodeNotFound indicates an unknown id, category or key (404)
	CodeNotFound Code = "not_found"

	// CodeOutOfBounds indicates a manual value outside the threshold range (400)
	CodeOutOfBounds Code = "out_of_bounds"

	// CodeInvalidRange indicates a bad time window (400)
	CodeInvalidRange Code = "invalid_range"

	// CodeImportValidation indicates a bulk import failed pre-commit checks (400)
	CodeImportValidation Code = "import_validation_error"

	// CodeInvalidCategory indicates a category outside the fixed set (400)
	CodeInvalidCategory Code = "invalid_category"

	// CodeInternal indicates an unexpected store or infrastructure failure (500)
	CodeInternal Code = "internal_error"
)

// ================================================================================
// AppError
// ================================================================================

// AppError is a structured application error with code, HTTP status and
// optional metadata for the caller.
type AppError struct {
	code       Code
	httpStatus int
	message    string
	cause      error
	metadata   map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the stable error code.
func (e *AppError) Code() Code {
	return e.code
}

// HTTPStatus returns the HTTP status code this error maps to.
func (e *AppError) HTTPStatus() int {
	return e.httpStatus
}

// Message returns the human-readable error message without the cause chain.
func (e *AppError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches a cause error to the chain.
func (e *AppError) WithCause(cause error) *AppError {
	e.cause = cause
	return e
}

// WithMetadata attaches additional context metadata.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all attached metadata.
func (e *AppError) Metadata() map[string]interface{} {
	return e.metadata
}

// ================================================================================
// Constructors
// ================================================================================

// New creates a new AppError with an explicit code and HTTP status.
func New(code Code, httpStatus int, message string) *AppError {
	return &AppError{
		code:       code,
		httpStatus: httpStatus,
		message:    message,
	}
}

// Validation creates a validation_error (400).
func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidation, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// NotFound creates a not_found error (404).
func NotFound(format string, args ...interface{}) *AppError {
	return New(CodeNotFound, http.StatusNotFound, fmt.Sprintf(format, args...))
}

// OutOfBounds creates an out_of_bounds error (400).
func OutOfBounds(format string, args ...interface{}) *AppError {
	return New(CodeOutOfBounds, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// InvalidRange creates an invalid_range error (400).
func InvalidRange(format string, args ...interface{}) *AppError {
	return New(CodeInvalidRange, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// InvalidCategory creates an invalid_category error (400).
func InvalidCategory(category string) *AppError {
	return New(CodeInvalidCategory, http.StatusBadRequest,
		fmt.Sprintf("unknown threshold category: %s", category)).
		WithMetadata("category", category)
}

// ImportValidation creates an import_validation_error (400). The per-entry
// failure list travels in metadata under "failures".
func ImportValidation(failures interface{}) *AppError {
	return New(CodeImportValidation, http.StatusBadRequest,
		"import rejected: one or more entries failed validation").
		WithMetadata("failures", failures)
}

// Internal creates an internal_error (500).
func Internal(message string) *AppError {
	return New(CodeInternal, http.StatusInternalServerError, message)
}

// Wrap wraps a generic error into an AppError with the given code.
func Wrap(err error, code Code, message string) *AppError {
	status := http.StatusInternalServerError
	switch code {
	case CodeValidation, CodeOutOfBounds, CodeInvalidRange, CodeImportValidation, CodeInvalidCategory:
		status = http.StatusBadRequest
	case CodeNotFound:
		status = http.StatusNotFound
	}
	return New(code, status, message).WithCause(err)
}

// ================================================================================
// Inspection Utilities
// ================================================================================

// As attempts to extract an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of an error, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code()
	}
	return CodeInternal
}

// HTTPStatusOf returns the HTTP status of an error, defaulting to 500.
func HTTPStatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether the error is a not_found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsValidation reports whether the error is a validation_error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsOutOfBounds reports whether the error is an out_of_bounds error.
func IsOutOfBounds(err error) bool {
	return CodeOf(err) == CodeOutOfBounds
}
