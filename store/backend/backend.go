// Package backend opens a store.Storage from configuration.
package backend

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tailored-agentic-units/journal/store"
	"github.com/tailored-agentic-units/journal/store/kv"
	"github.com/tailored-agentic-units/journal/store/kv/kvdiskv"
	"github.com/tailored-agentic-units/journal/store/kv/kvmap"
	"github.com/tailored-agentic-units/journal/store/kv/kvredis"
	"github.com/tailored-agentic-units/journal/store/rpc"
)

// Backend names.
const (
	Memory = "memory"
	Diskv  = "diskv"
	Redis  = "redis"
	RPC    = "rpc"
)

// Config selects and configures a storage backend.
//
// Example YAML:
//
//	backend: redis
//	addr: localhost:6379
//	prefix: journal
type Config struct {
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Source names the store in result provenance.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Path is the diskv base directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Addr, Password, DB, and Prefix configure the redis backend.
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// URL is the base URL of a remote storage service.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DefaultConfig returns an in-memory backend.
func DefaultConfig() Config {
	return Config{
		Backend: Memory,
		Source:  "journal",
		Path:    "db",
		Addr:    "localhost:6379",
		Prefix:  "journal",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Source != "" {
		c.Source = source.Source
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.Password != "" {
		c.Password = source.Password
	}
	if source.DB > 0 {
		c.DB = source.DB
	}
	if source.Prefix != "" {
		c.Prefix = source.Prefix
	}
	if source.URL != "" {
		c.URL = source.URL
	}
}

// Open creates the configured storage. The returned close function releases
// any connections and is never nil.
func Open(cfg *Config) (store.Storage, func() error, error) {
	noop := func() error { return nil }
	source := kv.WithSource(cfg.Source, "")

	switch cfg.Backend {
	case Memory, "":
		return kv.New(kvmap.NewBucket(), source), noop, nil
	case Diskv:
		if cfg.Path == "" {
			return nil, noop, fmt.Errorf("diskv backend requires a path")
		}
		return kv.New(kvdiskv.New(cfg.Path), source), noop, nil
	case Redis:
		bucket := kvredis.New(kvredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
		})
		return kv.New(bucket, source), bucket.Close, nil
	case RPC:
		if cfg.URL == "" {
			return nil, noop, fmt.Errorf("rpc backend requires a url")
		}
		client := &http.Client{Timeout: 30 * time.Second}
		return rpc.NewClient(client, cfg.URL), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
