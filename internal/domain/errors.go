package domain

import "errors"

// Sentinel errors shared by the domain packages. Callers match them with
// errors.Is; more specific errors wrap them.
var (
	// ErrValidation marks any input that breaks a domain rule. Simulation
	// parameter errors and user field errors both wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat marks input that could not be decoded at all, such
	// as malformed JSON or an unknown output format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID marks an identifier that is not a well-formed UUID.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized marks a request without an authenticated owner.
	ErrUnauthorized = errors.New("unauthorized operation")
)
