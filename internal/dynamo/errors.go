package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a body constructed with a non-positive mass.
	ErrInvalidMass = errors.New("dynamo: body mass must be positive")

	// ErrUnknownPreset indicates a preset index outside the catalog.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrBodyIndex indicates a command addressed a body that does not exist.
	ErrBodyIndex = errors.New("dynamo: body index out of range")

	// ErrUnknownIntegrator indicates an integrator name with no registration.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrInvalidState indicates a NaN or Inf in a body's state.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// BodyError wraps an error with the index of the body it concerns.
type BodyError struct {
	Index   int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
