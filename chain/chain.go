package chain

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/journal/config"
	"github.com/tailored-agentic-units/journal/observability"
)

// Result holds the outcome of a chain run.
//
// Final is the value after the last completed step, or the initial value
// when the chain failed. Intermediate is only populated when
// ChainConfig.CaptureIntermediateStates is set: index 0 holds the initial
// value and index N the value after step N.
type Result[T any] struct {
	Final        T
	Intermediate []T
	Steps        int
}

// Run executes links in order, resolving the observer named in cfg from the
// observability registry. An empty observer name disables events.
//
// See RunObserved for execution semantics.
func Run[T any](
	ctx context.Context,
	cfg config.ChainConfig,
	initial T,
	links []Link[T],
	progress ProgressFunc[T],
) (Result[T], error) {
	var observer observability.Observer = observability.NoOpObserver{}
	if cfg.Observer != "" {
		var err error
		observer, err = observability.GetObserver(cfg.Observer)
		if err != nil {
			return Result[T]{Final: initial}, fmt.Errorf("failed to resolve observer: %w", err)
		}
	}
	return RunObserved(ctx, observer, cfg, initial, links, progress)
}

// RunObserved executes links in order with an explicit observer.
//
// Each step receives the value returned by the previous one. Processing stops
// at the first error, which is returned wrapped in a ChainError. The context
// is checked before every step; a cancelled context stops the chain with a
// ChainError wrapping the context error.
//
// Events emitted:
//   - EventChainStart: before the first step
//   - EventStepStart: before each step
//   - EventStepComplete: after each step, successful or not
//   - EventChainComplete: when the chain finishes
//
// An empty chain returns the initial value with Steps = 0.
func RunObserved[T any](
	ctx context.Context,
	observer observability.Observer,
	cfg config.ChainConfig,
	initial T,
	links []Link[T],
	progress ProgressFunc[T],
) (Result[T], error) {
	observer = observability.OrNoOp(observer)

	result := Result[T]{
		Final: initial,
		Steps: 0,
	}

	observer.OnEvent(ctx, observability.NewEvent(EventChainStart, observability.LevelVerbose, "chain.Run", map[string]any{
		"step_count":            len(links),
		"has_progress_callback": progress != nil,
		"capture_intermediate":  cfg.CaptureIntermediateStates,
	}))

	var intermediate []T
	if cfg.CaptureIntermediateStates {
		intermediate = make([]T, 0, len(links)+1)
		intermediate = append(intermediate, initial)
	}

	value := initial

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			observer.OnEvent(ctx, observability.NewEvent(EventChainComplete, observability.LevelInfo, "chain.Run", map[string]any{
				"steps_completed": i,
				"error":           true,
				"error_type":      "cancellation",
			}))
			return result, &ChainError[T]{
				StepIndex: i,
				StepName:  link.Name,
				State:     value,
				Err:       fmt.Errorf("processing cancelled: %w", err),
			}
		}

		observer.OnEvent(ctx, observability.NewEvent(EventStepStart, observability.LevelVerbose, "chain.Run", map[string]any{
			"step_index":  i,
			"step_name":   link.Name,
			"total_steps": len(links),
		}))

		updated, err := link.Step(ctx, value)
		if err != nil {
			observer.OnEvent(ctx, observability.NewEvent(EventStepComplete, observability.LevelVerbose, "chain.Run", map[string]any{
				"step_index":  i,
				"step_name":   link.Name,
				"total_steps": len(links),
				"error":       true,
			}))
			observer.OnEvent(ctx, observability.NewEvent(EventChainComplete, observability.LevelWarning, "chain.Run", map[string]any{
				"steps_completed": i,
				"error":           true,
				"error_type":      "step",
				"step_name":       link.Name,
				"err":             err.Error(),
			}))
			return result, &ChainError[T]{
				StepIndex: i,
				StepName:  link.Name,
				State:     value,
				Err:       err,
			}
		}

		value = updated

		if cfg.CaptureIntermediateStates {
			intermediate = append(intermediate, value)
		}

		observer.OnEvent(ctx, observability.NewEvent(EventStepComplete, observability.LevelVerbose, "chain.Run", map[string]any{
			"step_index":  i,
			"step_name":   link.Name,
			"total_steps": len(links),
			"error":       false,
		}))

		if progress != nil {
			progress(i+1, len(links), value)
		}
	}

	result.Final = value
	result.Intermediate = intermediate
	result.Steps = len(links)

	observer.OnEvent(ctx, observability.NewEvent(EventChainComplete, observability.LevelVerbose, "chain.Run", map[string]any{
		"steps_completed": len(links),
		"error":           false,
	}))

	return result, nil
}

// Start runs the chain on its own goroutine and returns immediately.
func Start[T any](
	ctx context.Context,
	observer observability.Observer,
	cfg config.ChainConfig,
	initial T,
	links []Link[T],
	progress ProgressFunc[T],
) *Future[Result[T]] {
	return Go(ctx, func(ctx context.Context) (Result[T], error) {
		return RunObserved(ctx, observer, cfg, initial, links, progress)
	})
}
