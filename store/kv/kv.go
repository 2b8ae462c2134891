// Package kv implements the journal storage collaborator over a key-value
// bucket. Entities are stored as JSON documents keyed by a value derived from
// their identifier.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/journal/rdf"
	"github.com/tailored-agentic-units/journal/store"
)

const uuidURN = "urn:uuid:"

// record is the stored form of an entity.
type record struct {
	Entity  rdf.Descriptor `json:"entity"`
	Created time.Time      `json:"created"`
}

// KV is a journal storage backend using a key-value interface.
type KV struct {
	mu     sync.RWMutex
	bucket TraversingBucket
	source rdf.Source
	newID  func() string
}

// Option configures a KV.
type Option func(*KV)

// WithSource sets the provenance reported with every result set.
func WithSource(name, command string) Option {
	return func(s *KV) {
		s.source = rdf.Source{Name: name, Command: command}
	}
}

// WithIDGenerator replaces the identifier generator for created entities.
func WithIDGenerator(newID func() string) Option {
	return func(s *KV) {
		s.newID = newID
	}
}

// New creates a new key-value storage backend.
func New(bucket TraversingBucket, opts ...Option) *KV {
	s := &KV{
		bucket: bucket,
		source: rdf.Source{Name: "kv"},
		newID:  newUUIDv7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuidURN + uuid.NewString()
	}
	return uuidURN + id.String()
}

// keyFor maps an identifier to a bucket key that is safe as a file name.
func keyFor(about string) string {
	if id, ok := strings.CutPrefix(about, uuidURN); ok {
		return id
	}
	return url.PathEscape(about)
}

// Create implements the storage interface method.
func (s *KV) Create(ctx context.Context, desc *rdf.Descriptor) (*rdf.ResultSet, error) {
	if desc == nil || len(desc.Types) == 0 {
		return nil, fmt.Errorf("%w: create requires at least one type", store.ErrInvalidDescriptor)
	}

	rec := record{Entity: *desc.Clone(), Created: time.Now()}
	if rec.Entity.About == "" {
		rec.Entity.About = s.newID()
	}
	key := keyFor(rec.Entity.About)

	s.mu.Lock()
	defer s.mu.Unlock()

	if found, err := s.bucket.Has(ctx, key); err != nil {
		return nil, fmt.Errorf("checking %s: %w", rec.Entity.About, err)
	} else if found {
		return nil, fmt.Errorf("%w: %s", store.ErrAlreadyExists, rec.Entity.About)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", rec.Entity.About, err)
	}
	if err := s.bucket.Set(ctx, key, raw); err != nil {
		return nil, fmt.Errorf("storing %s: %w", rec.Entity.About, err)
	}

	return &rdf.ResultSet{
		Results: []rdf.Result{toResult(&rec.Entity, 0)},
		Sources: []rdf.Source{s.source},
	}, nil
}

// Search implements the storage interface method. Results are ordered by
// creation time. Each result carries a GraphDegree column counting the
// references into and out of the entity.
func (s *KV) Search(ctx context.Context, pattern *rdf.Descriptor) (*rdf.ResultSet, error) {
	if err := store.Validate(pattern); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	degree := make(map[string]int)
	for _, rec := range records {
		for _, targets := range rec.Entity.References {
			degree[rec.Entity.About] += len(targets)
			for _, target := range targets {
				degree[target]++
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Created.Equal(records[j].Created) {
			return records[i].Created.Before(records[j].Created)
		}
		return records[i].Entity.About < records[j].Entity.About
	})

	rs := &rdf.ResultSet{Results: []rdf.Result{}, Sources: []rdf.Source{s.source}}
	for _, rec := range records {
		if pattern.Matches(&rec.Entity) {
			rs.Results = append(rs.Results, toResult(&rec.Entity, degree[rec.Entity.About]))
		}
	}
	return rs, nil
}

// load reads every record in the bucket.
func (s *KV) load(ctx context.Context) ([]record, error) {
	keys, err := AllKeys(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	records := make([]record, 0, len(keys))
	for _, key := range keys {
		raw, err := s.bucket.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			// deleted since listing
			continue
		} else if err != nil {
			return nil, fmt.Errorf("getting %s: %w", key, err)
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshaling %s: %w", key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func toResult(d *rdf.Descriptor, degree int) rdf.Result {
	columns := make(map[string][]string, len(d.Properties)+1)
	for predicate, values := range d.Properties {
		columns[predicate] = append([]string(nil), values...)
	}
	columns[rdf.GraphDegree] = []string{strconv.Itoa(degree)}
	return rdf.Result{
		About:   d.About,
		Types:   append([]string(nil), d.Types...),
		Columns: columns,
	}
}
