package config

import "time"

const (
	// DefaultSearchTimeout bounds the location search that populates the
	// create_event form.
	DefaultSearchTimeout = 2 * time.Second

	// DefaultCandidateLimit caps ranked candidate lists.
	DefaultCandidateLimit = 10
)

// ResolverConfig defines configuration for lookup-or-create resolution.
type ResolverConfig struct {
	// Limit caps the ranked candidates offered to a selector.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// SearchTimeout bounds each store search. Zero leaves searches unbounded.
	SearchTimeout Duration `json:"search_timeout,omitempty" yaml:"search_timeout,omitempty"`

	// Create allows the resolver to create an entity when no candidate exists.
	Create bool `json:"create,omitempty" yaml:"create,omitempty"`
}

// DefaultResolverConfig returns resolver defaults: ten candidates, no
// search bound, no creation fallback.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Limit: DefaultCandidateLimit,
	}
}

func (c *ResolverConfig) Merge(source *ResolverConfig) {
	if source.Limit > 0 {
		c.Limit = source.Limit
	}

	if source.SearchTimeout > 0 {
		c.SearchTimeout = source.SearchTimeout
	}

	if source.Create {
		c.Create = true
	}
}

// CreateEventConfig defines configuration for the create_event command.
//
// Example JSON:
//
//	{
//	  "search_timeout": "2s",
//	  "max_locations": 10,
//	  "chain": {"observer": "noop"}
//	}
type CreateEventConfig struct {
	// SearchTimeout bounds the spatial-thing search run while building the form.
	SearchTimeout Duration `json:"search_timeout,omitempty" yaml:"search_timeout,omitempty"`

	// MaxLocations caps the location options offered on the form.
	MaxLocations int `json:"max_locations,omitempty" yaml:"max_locations,omitempty"`

	// Chain configures the submission chain. An empty observer name inherits
	// the observer the command was built with.
	Chain ChainConfig `json:"chain" yaml:"chain"`
}

// DefaultCreateEventConfig returns create_event defaults.
func DefaultCreateEventConfig() CreateEventConfig {
	return CreateEventConfig{
		SearchTimeout: Duration(DefaultSearchTimeout),
		MaxLocations:  DefaultCandidateLimit,
		Chain:         ChainConfig{},
	}
}

func (c *CreateEventConfig) Merge(source *CreateEventConfig) {
	if source.SearchTimeout > 0 {
		c.SearchTimeout = source.SearchTimeout
	}

	if source.MaxLocations > 0 {
		c.MaxLocations = source.MaxLocations
	}

	c.Chain.Merge(&source.Chain)
}
