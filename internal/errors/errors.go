// Package errors provides a lightweight structured error type (WikiStoreError)
// for category- and code-based classification across the page store engine.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a wikistore error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content storage errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryEncoding   ErrorCategory = "encoding"
	CategorySection    ErrorCategory = "section"

	// Versioning and record persistence errors
	CategoryGit    ErrorCategory = "git"
	CategoryRecord ErrorCategory = "record"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure mode within a category. Codes are
// stable and checked by callers; categories are for coarse classification.
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "not_found"
	CodeSectionNotFound ErrorCode = "section_not_found"
	CodeDecode          ErrorCode = "decode"
	CodeEncode          ErrorCode = "encode"
	CodeIO              ErrorCode = "io"
	CodeCommit          ErrorCode = "commit"
	CodeNoHistory       ErrorCode = "no_history"
	CodeSave            ErrorCode = "save"
	CodeValidation      ErrorCode = "validation"
	CodeRecord          ErrorCode = "record"
	CodeConfig          ErrorCode = "config"
	CodeInternal        ErrorCode = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// WikiStoreError is a structured error with category, code, and context
type WikiStoreError struct {
	Category ErrorCategory `json:"category"`
	Code     ErrorCode     `json:"code"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for WikiStoreError
type ContextFields map[string]any

// Error implements the error interface
func (e *WikiStoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Code, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *WikiStoreError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *WikiStoreError) WithContext(key string, value any) *WikiStoreError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithCause attaches an underlying cause to the error
func (e *WikiStoreError) WithCause(err error) *WikiStoreError {
	e.Cause = err
	return e
}

// New creates a new WikiStoreError
func New(category ErrorCategory, code ErrorCode, message string) *WikiStoreError {
	return &WikiStoreError{
		Category: category,
		Code:     code,
		Severity: SeverityError,
		Message:  message,
	}
}

// Wrap creates a new WikiStoreError that wraps an existing error
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *WikiStoreError {
	return &WikiStoreError{
		Category: category,
		Code:     code,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if wse, ok := err.(*WikiStoreError); ok {
		return wse.Category == category
	}
	return false
}

// IsCode checks if an error carries a specific code, unwrapping as needed so a
// SaveError wrapping a CommitError still reports CodeSave at the top level only.
func IsCode(err error, code ErrorCode) bool {
	if wse, ok := err.(*WikiStoreError); ok {
		return wse.Code == code
	}
	return false
}

// GetCode extracts the code from an error, or returns CodeInternal if not a WikiStoreError
func GetCode(err error) ErrorCode {
	if wse, ok := err.(*WikiStoreError); ok {
		return wse.Code
	}
	return CodeInternal
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a WikiStoreError
func GetCategory(err error) ErrorCategory {
	if wse, ok := err.(*WikiStoreError); ok {
		return wse.Category
	}
	return CategoryInternal
}
