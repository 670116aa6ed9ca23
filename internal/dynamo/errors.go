package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrNonPositiveMass indicates a particle whose mass is zero, negative or NaN.
	ErrNonPositiveMass = errors.New("dynamo: particle mass must be positive")

	// ErrInvalidState indicates a position or velocity with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidRegion indicates a region with negative size or non-finite values.
	ErrInvalidRegion = errors.New("dynamo: invalid field region")

	// ErrInvalidConfig indicates a run configuration outside valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick     int
	Time     float64
	Particle string
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) particle %q: %v", e.Tick, e.Time, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
