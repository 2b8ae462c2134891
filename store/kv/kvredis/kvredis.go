// Package kvredis implements a key-value bucket on a Redis keyspace prefix.
package kvredis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/tailored-agentic-units/journal/store/kv"
)

const scanCount = 100

// KVRedis stores each key as a Redis string under prefix.
type KVRedis struct {
	client *redis.Client
	prefix string
}

// NewBucket wraps client. Keys are namespaced as "<prefix>:<key>".
func NewBucket(client *redis.Client, prefix string) *KVRedis {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &KVRedis{client: client, prefix: prefix}
}

// Options holds the connection settings for New.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New connects a bucket to the Redis server described by opts.
func New(opts Options) *KVRedis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewBucket(client, opts.Prefix)
}

// Close releases the underlying client.
func (s *KVRedis) Close() error {
	return s.client.Close()
}

func (s *KVRedis) Get(ctx context.Context, k string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.prefix+k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", kv.ErrKeyNotFound, k)
	}
	return v, err
}

func (s *KVRedis) Set(ctx context.Context, k string, v []byte) error {
	return s.client.Set(ctx, s.prefix+k, v, 0).Err()
}

func (s *KVRedis) Has(ctx context.Context, k string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+k).Result()
	return n > 0, err
}

func (s *KVRedis) Delete(ctx context.Context, k string) error {
	return s.client.Del(ctx, s.prefix+k).Err()
}

// Keys scans the prefix. A scan error ends the stream early; use ListKeys
// to observe it.
func (s *KVRedis) Keys(cancel <-chan struct{}) <-chan string {
	r := make(chan string)
	go func() {
		defer close(r)
		ctx, stop := context.WithCancel(context.Background())
		defer stop()
		go func() {
			select {
			case <-cancel:
				stop()
			case <-ctx.Done():
			}
		}()

		iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
		for iter.Next(ctx) {
			select {
			case <-cancel:
				return
			case r <- strings.TrimPrefix(iter.Val(), s.prefix):
			}
		}
	}()
	return r
}

// ListKeys scans the prefix and returns every key, or the scan error.
func (s *KVRedis) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s*: %w", s.prefix, err)
	}
	return keys, nil
}
