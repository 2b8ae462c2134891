package session

// Config holds session manager parameters.
type Config struct {
	// MaxSessions caps concurrently open sessions. Zero means unlimited.
	MaxSessions int `json:"max_sessions,omitempty" yaml:"max_sessions,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxSessions > 0 {
		c.MaxSessions = source.MaxSessions
	}
}

// New creates a Manager from configuration. Currently returns an in-memory manager.
func New(cfg *Config) (Manager, error) {
	return NewMemoryManager(cfg.MaxSessions), nil
}
