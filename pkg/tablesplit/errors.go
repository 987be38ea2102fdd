package tablesplit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTable is returned when the input contains no w:tbl element
	ErrNoTable = errors.New("no table found")
	// ErrTableIndex is returned when a table index is outside the document
	ErrTableIndex = errors.New("table index out of range")
)

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ClassifierError wraps a failed classifier call
type ClassifierError struct {
	Attempt int
	Cause   error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier failed on attempt %d: %v", e.Attempt, e.Cause)
}

func (e *ClassifierError) Unwrap() error {
	return e.Cause
}

// VerificationFailedError is returned when region metadata still has problems
// after the last attempt
type VerificationFailedError struct {
	Attempts int
	Errors   []VerificationError
}

func (e *VerificationFailedError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("regions failed verification after %d attempts: %s", e.Attempts, e.Errors[0].ErrorMsg)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("regions failed verification after %d attempts with %d errors:", e.Attempts, len(e.Errors)))
	for i, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("  [%d] %s", i+1, err.ErrorMsg))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsDocumentError checks if an error is or wraps a document error
func IsDocumentError(err error) bool {
	var docErr *DocumentError
	return errors.As(err, &docErr)
}

// IsVerificationFailed checks if an error is or wraps a verification failure
func IsVerificationFailed(err error) bool {
	var vErr *VerificationFailedError
	return errors.As(err, &vErr)
}
