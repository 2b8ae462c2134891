package chain

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a bounded step does not settle in time.
var ErrTimeout = errors.New("step timed out")

// ChainError records where a chain stopped.
//
// State is the accumulated value handed to the failing step, i.e. the value
// after the last successful step. Unwrap exposes the step's own error:
//
//	_, err := chain.Run(ctx, cfg, initial, links, nil)
//	var chainErr *chain.ChainError[accumulator.Accumulator]
//	if errors.As(err, &chainErr) {
//	    fmt.Printf("stopped at %s\n", chainErr.StepName)
//	}
//	if errors.Is(err, chain.ErrTimeout) {
//	    // a bounded step timed out
//	}
type ChainError[T any] struct {
	// StepIndex is the 0-based index of the failing step.
	StepIndex int

	// StepName is the name of the failing step, if it has one.
	StepName string

	// State is the accumulated value at the time of failure.
	State T

	// Err is the underlying error.
	Err error
}

func (e *ChainError[T]) Error() string {
	if e.StepName != "" {
		return fmt.Sprintf("chain failed at step %d (%s): %v", e.StepIndex, e.StepName, e.Err)
	}
	return fmt.Sprintf("chain failed at step %d: %v", e.StepIndex, e.Err)
}

func (e *ChainError[T]) Unwrap() error {
	return e.Err
}
