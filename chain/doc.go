// Package chain runs dependent workflow steps in strict sequence.
//
// A chain threads one accumulated value through an ordered list of steps.
// Each step receives the value produced by the step before it and returns
// the value handed to the next:
//
//	links := []chain.Link[int]{
//	    chain.Named("double", func(ctx context.Context, n int) (int, error) { return n * 2, nil }),
//	    chain.Named("inc", func(ctx context.Context, n int) (int, error) { return n + 1, nil }),
//	}
//	result, err := chain.Run(ctx, config.DefaultChainConfig(), 20, links, nil)
//	// result.Final == 41
//
// # Ordering and Failure
//
// Step n+1 never starts before step n has returned. The first failing step
// stops the chain: no later step runs and the failure is returned wrapped in
// a ChainError, which unwraps to the step's own error so errors.Is and
// errors.As keep working. Side effects already committed by earlier steps
// are not undone.
//
// The context is checked before every step, so cancelling it stops a chain
// at the next step boundary.
//
// # Pending Computations
//
// Go starts a computation on its own goroutine and returns a Future. Start
// runs a whole chain that way so a caller can hand off a workflow and await
// it later, or never.
//
// # Timeouts
//
// The chain imposes no deadline of its own. A step that needs one wraps
// itself with Timeout, or bounds a single call with Bound; both fail with
// ErrTimeout once the bound elapses.
package chain
