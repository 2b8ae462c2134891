// Package resolver turns a partial entity description into a concrete
// identifier: an explicit identifier is used as-is, otherwise the store is
// searched and a candidate chosen, and as a last resort the entity is
// created.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tailored-agentic-units/journal/chain"
	"github.com/tailored-agentic-units/journal/config"
	"github.com/tailored-agentic-units/journal/observability"
	"github.com/tailored-agentic-units/journal/rdf"
	"github.com/tailored-agentic-units/journal/store"
)

// ErrNotFound is returned when no entity matches and creation is disabled.
var ErrNotFound = errors.New("no matching entity")

const EventResolve observability.EventType = "resolver.resolve"

// Selector chooses among ranked candidates, typically by asking the user.
// Returning "" with a nil error declines every candidate.
type Selector interface {
	Select(ctx context.Context, desc *rdf.Descriptor, candidates []Candidate) (string, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, desc *rdf.Descriptor, candidates []Candidate) (string, error)

func (f SelectorFunc) Select(ctx context.Context, desc *rdf.Descriptor, candidates []Candidate) (string, error) {
	return f(ctx, desc, candidates)
}

// Resolver implements lookup-or-create against a store.
type Resolver struct {
	storage  store.Storage
	selector Selector
	create   bool
	limit    int
	timeout  time.Duration
	observer observability.Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSelector sets the selector consulted when a search finds candidates.
func WithSelector(s Selector) Option {
	return func(r *Resolver) { r.selector = s }
}

// WithCreate enables creating the entity when the search finds nothing.
func WithCreate(create bool) Option {
	return func(r *Resolver) { r.create = create }
}

// WithLimit caps the candidates handed to the selector.
func WithLimit(limit int) Option {
	return func(r *Resolver) { r.limit = limit }
}

// WithSearchTimeout bounds each search. Zero leaves it unbounded.
func WithSearchTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// WithObserver sets the event observer.
func WithObserver(o observability.Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// New creates a Resolver with the default configuration.
func New(storage store.Storage, opts ...Option) *Resolver {
	return NewFromConfig(storage, config.DefaultResolverConfig(), opts...)
}

// NewFromConfig creates a Resolver from cfg. Options are applied after cfg.
func NewFromConfig(storage store.Storage, cfg config.ResolverConfig, opts ...Option) *Resolver {
	r := &Resolver{
		storage:  storage,
		create:   cfg.Create,
		limit:    cfg.Limit,
		timeout:  cfg.SearchTimeout.Std(),
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.observer = observability.OrNoOp(r.observer)
	return r
}

// Search runs a store search bounded by the configured timeout.
func (r *Resolver) Search(ctx context.Context, pattern *rdf.Descriptor) (*rdf.ResultSet, error) {
	return chain.Bound(ctx, r.timeout, func(ctx context.Context) (*rdf.ResultSet, error) {
		return r.storage.Search(ctx, pattern)
	})
}

// Candidates searches for pattern and ranks the results.
func (r *Resolver) Candidates(ctx context.Context, pattern *rdf.Descriptor) ([]Candidate, *rdf.ResultSet, error) {
	rs, err := r.Search(ctx, pattern)
	if err != nil {
		return nil, nil, err
	}
	return Rank(rs.Results, r.limit), rs, nil
}

// Resolve returns the identifier for desc.
//
// When desc.About is set it is returned without touching the store.
// Otherwise the store is searched; with a selector the ranked candidates are
// offered to it, without one the top-ranked candidate wins. When nothing is
// found or the selector declines, the entity is created if creation is
// enabled, else ErrNotFound is returned.
func (r *Resolver) Resolve(ctx context.Context, desc *rdf.Descriptor) (string, error) {
	if desc == nil {
		return "", store.Validate(desc)
	}

	if desc.About != "" {
		r.emit(ctx, desc.About, "identifier", 0)
		return desc.About, nil
	}

	candidates, _, err := r.Candidates(ctx, desc)
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", typesOf(desc), err)
	}

	if len(candidates) > 0 {
		if r.selector == nil {
			r.emit(ctx, candidates[0].About, "ranked", len(candidates))
			return candidates[0].About, nil
		}

		about, err := r.selector.Select(ctx, desc, candidates)
		if err != nil {
			return "", fmt.Errorf("selecting %s: %w", typesOf(desc), err)
		}
		if about != "" {
			r.emit(ctx, about, "selected", len(candidates))
			return about, nil
		}
	}

	if !r.create {
		return "", fmt.Errorf("%w: %s", ErrNotFound, typesOf(desc))
	}

	rs, err := r.storage.Create(ctx, desc.Clone())
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", typesOf(desc), err)
	}
	about, ok := rs.First()
	if !ok {
		return "", fmt.Errorf("%w: create returned no result for %s", ErrNotFound, typesOf(desc))
	}
	r.emit(ctx, about, "created", len(candidates))
	return about, nil
}

func (r *Resolver) emit(ctx context.Context, about, via string, candidates int) {
	r.observer.OnEvent(ctx, observability.NewEvent(EventResolve, observability.LevelVerbose, "resolver", map[string]any{
		"about":      about,
		"via":        via,
		"candidates": candidates,
	}))
}

func typesOf(desc *rdf.Descriptor) string {
	if len(desc.Types) == 0 {
		return "entity"
	}
	return strings.Join(desc.Types, ",")
}
