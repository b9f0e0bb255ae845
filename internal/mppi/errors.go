package mppi

import (
	"errors"
	"fmt"
)

// Domain errors for optimizer operations.
var (
	// ErrInvalidConfig indicates settings rejected at setup.
	ErrInvalidConfig = errors.New("mppi: invalid configuration")

	// ErrInvalidPath indicates a reference path with fewer than two points.
	ErrInvalidPath = errors.New("mppi: reference path needs at least two points")

	// ErrOptimizerFailed indicates the critics kept flagging failure after all retries.
	ErrOptimizerFailed = errors.New("mppi: optimizer failed to compute a control")
)

// CycleError wraps an error with the cycle it happened in.
type CycleError struct {
	Attempt   int
	Iteration int
	Err       error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("attempt %d, iteration %d: %v", e.Attempt, e.Iteration, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}
