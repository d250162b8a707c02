package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the lightning-code-complete system
type ErrorType string

const (
	// Request errors
	ErrorTypeInvalidOffset   ErrorType = "invalid_offset"
	ErrorTypeUnknownDocument ErrorType = "unknown_document"

	// Index errors
	ErrorTypeSnapshot ErrorType = "snapshot"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// RequestError represents a rejected completion or signature-help request.
type RequestError struct {
	Type      ErrorType
	Path      string
	Offset    int
	Length    int
	Timestamp time.Time
}

// NewInvalidOffsetError creates an error for a cursor offset outside the
// document's text.
func NewInvalidOffsetError(path string, offset, length int) *RequestError {
	return &RequestError{
		Type:      ErrorTypeInvalidOffset,
		Path:      path,
		Offset:    offset,
		Length:    length,
		Timestamp: time.Now(),
	}
}

// NewUnknownDocumentError creates an error for a request against a file that
// was never added to the engine.
func NewUnknownDocumentError(path string) *RequestError {
	return &RequestError{
		Type:      ErrorTypeUnknownDocument,
		Path:      path,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Type == ErrorTypeInvalidOffset {
		return fmt.Sprintf("invalid offset %d for %s (document length %d)", e.Offset, e.Path, e.Length)
	}
	return fmt.Sprintf("unknown document %s", e.Path)
}

// IsInvalidOffset checks whether err is an out-of-bounds cursor rejection.
func IsInvalidOffset(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Type == ErrorTypeInvalidOffset
}

// IsUnknownDocument checks whether err refers to a document the engine does
// not hold.
func IsUnknownDocument(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Type == ErrorTypeUnknownDocument
}

// SnapshotError represents a failed index snapshot load or save. A failed
// load leaves the previous snapshot active; this error only reports.
type SnapshotError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewSnapshotError creates a new snapshot error with context
func NewSnapshotError(op, path string, err error) *SnapshotError {
	return &SnapshotError{
		Type:       ErrorTypeSnapshot,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *SnapshotError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}
