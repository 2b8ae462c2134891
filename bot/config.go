package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/journal/config"
	"github.com/tailored-agentic-units/journal/session"
	"github.com/tailored-agentic-units/journal/store/backend"
)

// Config holds initialization parameters for all runtime subsystems.
// Each subsystem section delegates to that subsystem's config-driven constructor.
type Config struct {
	// Identity is the representation URI used for creator attribution.
	Identity    string                   `json:"identity,omitempty" yaml:"identity,omitempty"`
	Observer    string                   `json:"observer,omitempty" yaml:"observer,omitempty"`
	Store       backend.Config           `json:"store" yaml:"store"`
	Session     session.Config           `json:"session" yaml:"session"`
	CreateEvent config.CreateEventConfig `json:"create_event" yaml:"create_event"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Observer:    "slog",
		Store:       backend.DefaultConfig(),
		Session:     session.DefaultConfig(),
		CreateEvent: config.DefaultCreateEventConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)
	c.Session.Merge(&source.Session)
	c.CreateEvent.Merge(&source.CreateEvent)

	if source.Identity != "" {
		c.Identity = source.Identity
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON or YAML config file, merges it with defaults, and
// returns the resulting Config. Files ending in .yaml or .yml are parsed as
// YAML; anything else as JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
