// Package errors provides structured error types for the neurotab system.
// All errors include a category, code, message, and optional cause for
// consistent error handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryFormat    ErrorCategory = "FORMAT"
	ErrCategoryConfig    ErrorCategory = "CONFIG"
	ErrCategoryColumn    ErrorCategory = "COLUMN"
	ErrCategoryContainer ErrorCategory = "CONTAINER"
	ErrCategoryCatalog   ErrorCategory = "CATALOG"
	ErrCategoryStorage   ErrorCategory = "STORAGE"
	ErrCategoryInternal  ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Format codes
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMalformedTable    = "MALFORMED_TABLE"
	CodeMalformedSidecar  = "MALFORMED_SIDECAR"

	// Config codes
	CodeMissingTaskID = "MISSING_TASK_ID"
	CodeInvalidConfig = "INVALID_CONFIG"

	// Column codes
	CodeMissingColumn = "MISSING_COLUMN"

	// Container codes
	CodeContainerOpenFailed = "CONTAINER_OPEN_FAILED"
	CodeContainerReadFailed = "CONTAINER_READ_FAILED"

	// Catalog codes
	CodeCatalogOpenFailed = "CATALOG_OPEN_FAILED"
	CodeScanFailed        = "SCAN_FAILED"

	// Storage codes
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// Error is the structured error type used throughout the system.
type Error struct {
	Category ErrorCategory
	Code     string
	Message  string
	Details  map[string]interface{}
	Cause    error
}

// Error returns a formatted error string.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new Error.
func New(category ErrorCategory, code, message string) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a structured Error.
func GetCategory(err error) ErrorCategory {
	var se *Error
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a structured Error.
func GetCode(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// hasCode reports whether the error chain carries the given category and code.
func hasCode(err error, category ErrorCategory, code string) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Category == category && se.Code == code
	}
	return false
}

// IsUnsupportedFormat reports whether err is an unsupported-format error.
func IsUnsupportedFormat(err error) bool {
	return hasCode(err, ErrCategoryFormat, CodeUnsupportedFormat)
}

// IsFormat reports whether err is any fatal format error (malformed table
// or sidecar, or unsupported format).
func IsFormat(err error) bool {
	return GetCategory(err) == ErrCategoryFormat
}

// IsMissingTaskID reports whether err is a missing-task-identifier error.
func IsMissingTaskID(err error) bool {
	return hasCode(err, ErrCategoryConfig, CodeMissingTaskID)
}

// IsMissingColumn reports whether err is a missing-column error.
func IsMissingColumn(err error) bool {
	return hasCode(err, ErrCategoryColumn, CodeMissingColumn)
}

// Convenience constructors for common errors.

func NewFormatError(code, message string) *Error {
	return New(ErrCategoryFormat, code, message)
}

func WrapFormatError(code, message string, cause error) *Error {
	return Wrap(ErrCategoryFormat, code, message, cause)
}

func NewConfigError(code, message string) *Error {
	return New(ErrCategoryConfig, code, message)
}

func NewColumnError(message string) *Error {
	return New(ErrCategoryColumn, CodeMissingColumn, message)
}

func NewContainerError(code, message string, cause error) *Error {
	return Wrap(ErrCategoryContainer, code, message, cause)
}

func NewCatalogError(code, message string, cause error) *Error {
	return Wrap(ErrCategoryCatalog, code, message, cause)
}

func NewStorageError(code, message string, cause error) *Error {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
