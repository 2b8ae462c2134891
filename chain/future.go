package chain

import (
	"context"
	"fmt"
	"time"
)

// Future is a computation that settles exactly once with a value or an error.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on a new goroutine and returns its Future.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a Future already settled with value.
func Resolved[T any](value T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value}
	close(f.done)
	return f
}

// Done is closed once the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future settles or ctx is done. Giving up on ctx
// does not stop the underlying computation.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Bound runs fn with a deadline of d. If fn has not returned when the
// deadline passes, Bound returns ErrTimeout without waiting for it; fn sees
// its context cancelled and its eventual result is discarded. A
// non-positive d runs fn unbounded. Cancellation of the parent context is
// reported as the context error, not as a timeout.
func Bound[V any](ctx context.Context, d time.Duration, fn func(context.Context) (V, error)) (V, error) {
	if d <= 0 {
		return fn(ctx)
	}

	bctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	f := Go(bctx, fn)

	select {
	case <-f.done:
		if f.err != nil && bctx.Err() != nil && ctx.Err() == nil {
			return f.value, fmt.Errorf("%w after %v: %w", ErrTimeout, d, f.err)
		}
		return f.value, f.err
	case <-bctx.Done():
		var zero V
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w after %v", ErrTimeout, d)
	}
}

// Timeout bounds step with Bound.
func Timeout[T any](d time.Duration, step Step[T]) Step[T] {
	return func(ctx context.Context, value T) (T, error) {
		out, err := Bound(ctx, d, func(ctx context.Context) (T, error) {
			return step(ctx, value)
		})
		if err != nil {
			return value, err
		}
		return out, nil
	}
}
