package domain

import "errors"

// ErrNotFound is matched (via errors.Is) by every *_not_found sentinel below.
// ErrInvalidArgument is matched by every *ValidationError.
var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidArgument = errors.New("invalid_argument")
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrSessionNotFound     error = notFoundError("session_not_found")
	ErrCustomerNotFound    error = notFoundError("customer_not_found")
	ErrPrimeBrokerNotFound error = notFoundError("prime_broker_not_found")
	ErrSimulationNotFound  error = notFoundError("simulation_not_found")
	ErrTooManySimulations        = errors.New("too_many_simulations")
)

type notFoundError string

func (e notFoundError) Error() string {
	return string(e)
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a caller-supplied value that is structurally
// invalid: a negative amount, an unknown side, an operation on the central
// prime broker that only applies to non-central ones.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}
