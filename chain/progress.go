package chain

// ProgressFunc is called after each successful step with the number of
// completed steps, the total, and the accumulated value. It is not called
// before the first step or when a step fails.
type ProgressFunc[T any] func(
	completed int,
	total int,
	value T,
)
