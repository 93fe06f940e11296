package models

import (
	"errors"
	"strings"
)

var (
	// ErrCategoryNotFound is returned when a category id does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")

	// ErrReferentialIntegrity is returned when the database rejects a write or delete
	// because of a foreign key, e.g. deleting a category that still has products.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrPercentageOutOfRange is matched by the ValidationError returned from ApplyDiscount.
	ErrPercentageOutOfRange = errors.New("percentage out of range")
)

// FieldError describes one violated constraint on one input field. Err, when
// set, is the sentinel the violation stands for.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ValidationError collects every constraint an input violated.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is reports whether any violation carries target as its Err, so
// errors.Is(err, ErrPercentageOutOfRange) matches a discount range failure.
func (e *ValidationError) Is(target error) bool {
	for _, f := range e.Fields {
		if f.Err != nil && errors.Is(f.Err, target) {
			return true
		}
	}
	return false
}

// NewValidationError returns a ValidationError holding a single violation.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NewSentinelValidationError returns a ValidationError holding a single violation
// described by, and matching, err.
func NewSentinelValidationError(field string, err error) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: err.Error(), Err: err}}}
}

// Add appends a violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e when it holds violations and nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
