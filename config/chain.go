package config

// ChainConfig defines configuration for sequential step chains.
//
// Example JSON:
//
//	{
//	  "capture_intermediate_states": true,
//	  "observer": "slog"
//	}
type ChainConfig struct {
	// CaptureIntermediateStates records the accumulated value after each step.
	// When true, chain.Result.Intermediate holds the initial value followed by
	// the value after every completed step.
	CaptureIntermediateStates bool `json:"capture_intermediate_states" yaml:"capture_intermediate_states"`

	// Observer names the registered observer ("noop", "slog", ...).
	Observer string `json:"observer" yaml:"observer"`
}

// DefaultChainConfig returns chain defaults: no intermediate capture, slog observer.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		CaptureIntermediateStates: false,
		Observer:                  "slog",
	}
}

func (c *ChainConfig) Merge(source *ChainConfig) {
	if source.CaptureIntermediateStates {
		c.CaptureIntermediateStates = true
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
