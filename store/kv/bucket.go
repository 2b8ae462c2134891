package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Bucket.Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Bucket defines basic CRUD operations for key-value pairs in a single "namespace."
// Entity records are never deleted by KV; Delete is kept so buckets stay
// interchangeable with general-purpose key-value stores and can be cleared
// by operators and tests.
type Bucket interface {
	Get(ctx context.Context, k string) (v []byte, err error)
	Set(ctx context.Context, k string, v []byte) error
	Has(ctx context.Context, k string) (found bool, err error)
	Delete(ctx context.Context, k string) error
}

// TraversingBucket allows us to get a list of the keys in the bucket as well.
type TraversingBucket interface {
	Bucket
	// Keys returns the unordered keys in the bucket
	Keys(cancel <-chan struct{}) <-chan string
}

// KeyLister is implemented by buckets whose key traversal can fail, such as
// network-backed ones. AllKeys prefers it over Keys so the failure is
// reported instead of looking like an empty bucket.
type KeyLister interface {
	ListKeys(ctx context.Context) ([]string, error)
}

// AllKeys drains b.Keys into a slice, stopping early if ctx is done.
func AllKeys(ctx context.Context, b TraversingBucket) ([]string, error) {
	if l, ok := b.(KeyLister); ok {
		return l.ListKeys(ctx)
	}

	cancel := make(chan struct{})
	defer close(cancel)

	var keys []string
	ch := b.Keys(cancel)
	for {
		select {
		case k, ok := <-ch:
			if !ok {
				return keys, nil
			}
			keys = append(keys, k)
		case <-ctx.Done():
			return keys, ctx.Err()
		}
	}
}
