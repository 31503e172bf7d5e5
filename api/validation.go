// Package api provides the HTTP interface to the school search engine.
package api

import (
	"strconv"
	"unicode/utf8"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateSearchQuery checks a query string against the configured length limit.
// Empty queries are valid and simply match nothing.
func ValidateSearchQuery(query string, maxLength int) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if !utf8.ValidString(query) {
		result.AddError("query", "Query must be valid UTF-8")
		return result
	}

	if maxLength > 0 && utf8.RuneCountInString(query) > maxLength {
		result.AddError("query", "Query cannot be longer than "+strconv.Itoa(maxLength)+" characters")
	}

	return result
}
