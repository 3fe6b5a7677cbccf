package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// NewAppError builds an AppError with a stable code for log grepping.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// DocumentReadError marks a missing or unreadable source document.
// It is caught at the batch site: the document is logged and skipped,
// the batch continues.
type DocumentReadError struct {
	Path  string
	Cause error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("read document %s: %v", e.Path, e.Cause)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Cause
}

// NewDocumentReadError wraps a low-level read failure with the source path.
func NewDocumentReadError(path string, cause error) *DocumentReadError {
	return &DocumentReadError{Path: path, Cause: cause}
}

// IsDocumentReadError reports whether err is (or wraps) a DocumentReadError.
func IsDocumentReadError(err error) bool {
	var dre *DocumentReadError
	return errors.As(err, &dre)
}

// ParseError marks a numeric string that could not be normalized.
// It aborts only the field being parsed, never the invoice or the batch.
type ParseError struct {
	Input string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse %q: %v", e.Input, e.Cause)
	}
	return fmt.Sprintf("parse %q: not a valid decimal", e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
