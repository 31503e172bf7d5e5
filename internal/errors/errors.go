package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotBuilt is returned when a search is attempted before any index exists.
	// It signals a programming-contract violation, not a retryable condition.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrRecordNotFound is returned when a record position is outside the store
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrIngest is returned when the record source cannot be read
	ErrIngest = errors.New("ingest failed")
)

// IndexNotBuiltError carries the reason the engine has no index to search
type IndexNotBuiltError struct {
	Reason string
}

func (e *IndexNotBuiltError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("index not built: %s", e.Reason)
	}
	return "index not built"
}

func (e *IndexNotBuiltError) Is(target error) bool {
	return target == ErrIndexNotBuilt
}

// NewIndexNotBuiltError creates a new IndexNotBuiltError
func NewIndexNotBuiltError(reason string) *IndexNotBuiltError {
	return &IndexNotBuiltError{Reason: reason}
}

// RecordNotFoundError represents a lookup of a position that was never assigned
type RecordNotFoundError struct {
	Position uint32
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record at position %d not found", e.Position)
}

func (e *RecordNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

// NewRecordNotFoundError creates a new RecordNotFoundError
func NewRecordNotFoundError(position uint32) *RecordNotFoundError {
	return &RecordNotFoundError{Position: position}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IngestError represents a failure reading the record source, with the row
// (1-based, header excluded) and column where it happened when known.
type IngestError struct {
	Row    int
	Column string
	Err    error
}

func (e *IngestError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("ingest error at row %d, column '%s': %v", e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("ingest error at row %d: %v", e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("ingest error for column '%s': %v", e.Column, e.Err)
	default:
		return fmt.Sprintf("ingest error: %v", e.Err)
	}
}

func (e *IngestError) Is(target error) bool {
	return target == ErrIngest
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError
func NewIngestError(row int, column string, err error) *IngestError {
	return &IngestError{Row: row, Column: column, Err: err}
}
