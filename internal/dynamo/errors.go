package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrUnstable indicates the engine produced a non-finite body state.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrEngineFault indicates the rigid-body engine rejected the configuration
	// it was asked to step.
	ErrEngineFault = errors.New("dynamo: rigid-body engine fault")

	// ErrInvalidTimestep indicates a negative or non-finite timestep.
	ErrInvalidTimestep = errors.New("dynamo: invalid timestep")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// StepError wraps an engine failure with the tick it happened on.
type StepError struct {
	Tick    uint64
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (dt=%.4f): %v", e.Tick, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
