// Package kvdiskv wraps diskv to a standard interface for a key-value bucket.
package kvdiskv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
	"github.com/tailored-agentic-units/journal/store/kv"
)

// FlatTransform stores every key directly under the base path.
func FlatTransform(string) []string { return []string{} }

// KVDiskv wraps a diskv object to implement an on-disk key-value bucket.
type KVDiskv struct {
	diskv *diskv.Diskv
}

func NewBucket(dv *diskv.Diskv) *KVDiskv {
	return &KVDiskv{diskv: dv}
}

// New creates a flat diskv bucket rooted at path with a 1MiB read cache.
func New(path string) *KVDiskv {
	return NewBucket(diskv.New(diskv.Options{
		BasePath:     path,
		Transform:    FlatTransform,
		CacheSizeMax: 1024 * 1024,
	}))
}

func (s *KVDiskv) Get(_ context.Context, k string) ([]byte, error) {
	v, err := s.diskv.Read(k)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kv.ErrKeyNotFound, k)
	}
	return v, err
}

func (s *KVDiskv) Set(_ context.Context, k string, v []byte) error {
	return s.diskv.Write(k, v)
}

func (s *KVDiskv) Has(_ context.Context, k string) (bool, error) {
	return s.diskv.Has(k), nil
}

func (s *KVDiskv) Delete(_ context.Context, k string) error {
	err := s.diskv.Erase(k)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *KVDiskv) Keys(cancel <-chan struct{}) <-chan string {
	return s.diskv.Keys(cancel)
}
