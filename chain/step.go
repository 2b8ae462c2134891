package chain

import "context"

// Step transforms the accumulated value. Returning an error stops the chain.
type Step[T any] func(ctx context.Context, value T) (T, error)

// Link is a named step. Names appear in events and in ChainError.
type Link[T any] struct {
	Name string
	Step Step[T]
}

// Named pairs a step with its name.
func Named[T any](name string, step Step[T]) Link[T] {
	return Link[T]{Name: name, Step: step}
}

// When runs step only if cond holds for the incoming value.
func When[T any](cond func(T) bool, step Step[T]) Step[T] {
	return func(ctx context.Context, value T) (T, error) {
		if !cond(value) {
			return value, nil
		}
		return step(ctx, value)
	}
}
