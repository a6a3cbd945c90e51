package sird

import (
	"fmt"

	"github.com/phrazzld/sird-api/internal/domain"
)

// ErrorKind classifies a parameter validation failure.
type ErrorKind string

// Validation failure kinds.
const (
	// KindMissingField means a required field is absent, empty or not a number.
	KindMissingField ErrorKind = "missing_field"

	// KindOutOfRange means a numeric field violates its own bound.
	KindOutOfRange ErrorKind = "out_of_range"

	// KindInvalidRelation means a cross-field constraint is violated.
	KindInvalidRelation ErrorKind = "invalid_relation"
)

// Sentinel errors matched with errors.Is. All of them wrap domain.ErrValidation.
var (
	ErrMissingField    = fmt.Errorf("%w: missing field", domain.ErrValidation)
	ErrOutOfRange      = fmt.Errorf("%w: value out of range", domain.ErrValidation)
	ErrInvalidRelation = fmt.Errorf("%w: invalid relation between fields", domain.ErrValidation)
)

// ValidationError reports the first constraint a set of parameters violates.
type ValidationError struct {
	Kind  ErrorKind `json:"kind"`
	Field string    `json:"field"`
	// Bound is the violated bound for KindOutOfRange (e.g. "> 0") and the
	// related field for KindInvalidRelation.
	Bound string `json:"bound,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("%s is required and must be a valid value", e.Field)
	case KindOutOfRange:
		return fmt.Sprintf("%s must be %s", e.Field, e.Bound)
	case KindInvalidRelation:
		return fmt.Sprintf("%s must not exceed %s", e.Field, e.Bound)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// Unwrap exposes the sentinel matching the error kind.
func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case KindMissingField:
		return ErrMissingField
	case KindOutOfRange:
		return ErrOutOfRange
	case KindInvalidRelation:
		return ErrInvalidRelation
	default:
		return domain.ErrValidation
	}
}

func missingField(field string) error {
	return &ValidationError{Kind: KindMissingField, Field: field}
}

func outOfRange(field, bound string) error {
	return &ValidationError{Kind: KindOutOfRange, Field: field, Bound: bound}
}

func invalidRelation(field, other string) error {
	return &ValidationError{Kind: KindInvalidRelation, Field: field, Bound: other}
}
