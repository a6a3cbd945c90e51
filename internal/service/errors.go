package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/sird-api/internal/domain"
)

// Common service errors. Callers check for them with errors.Is; the API layer
// maps them to status codes.
var (
	// ErrInvalidCredentials means the email is unknown or the password does
	// not match. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDurationTooLong means a configuration asks for more days than the
	// service is configured to integrate.
	ErrDurationTooLong = fmt.Errorf("%w: duration exceeds the configured maximum", domain.ErrValidation)

	// ErrEmptyBatch means a batch run or import carried no entries.
	ErrEmptyBatch = fmt.Errorf("%w: at least one entry is required", domain.ErrValidation)

	// ErrBatchTooLarge means a batch run carried more entries than allowed.
	ErrBatchTooLarge = fmt.Errorf("%w: too many entries in batch", domain.ErrValidation)
)

// ServiceError wraps an unexpected failure with the service and operation it
// happened in.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}
