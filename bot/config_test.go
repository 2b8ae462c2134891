package bot_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tailored-agentic-units/journal/bot"
)

func TestDefaultConfig(t *testing.T) {
	cfg := bot.DefaultConfig()

	if cfg.Observer != "slog" {
		t.Errorf("got Observer %q, want slog", cfg.Observer)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("got Store.Backend %q, want memory", cfg.Store.Backend)
	}
	if cfg.CreateEvent.SearchTimeout.Std() != 2*time.Second {
		t.Errorf("got CreateEvent.SearchTimeout %v, want 2s", cfg.CreateEvent.SearchTimeout)
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := bot.DefaultConfig()
	original := cfg

	cfg.Merge(&bot.Config{})

	if cfg != original {
		t.Errorf("got %+v, want defaults preserved %+v", cfg, original)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "config.json",
			content: `{
				"identity": "urn:bot:journal",
				"store": {"backend": "diskv", "path": "/tmp/journal"},
				"create_event": {"search_timeout": "500ms", "max_locations": 5}
			}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `identity: urn:bot:journal
store:
  backend: diskv
  path: /tmp/journal
create_event:
  search_timeout: 500ms
  max_locations: 5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			cfg, err := bot.LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if cfg.Identity != "urn:bot:journal" {
				t.Errorf("got Identity %q", cfg.Identity)
			}
			if cfg.Store.Backend != "diskv" || cfg.Store.Path != "/tmp/journal" {
				t.Errorf("got Store %+v", cfg.Store)
			}
			if cfg.CreateEvent.SearchTimeout.Std() != 500*time.Millisecond {
				t.Errorf("got SearchTimeout %v, want 500ms", cfg.CreateEvent.SearchTimeout)
			}
			if cfg.CreateEvent.MaxLocations != 5 {
				t.Errorf("got MaxLocations %d, want 5", cfg.CreateEvent.MaxLocations)
			}
			if cfg.Observer != "slog" {
				t.Errorf("got Observer %q, want default slog", cfg.Observer)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := bot.LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadConfig(missing) error = nil")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := bot.LoadConfig(path); err == nil {
		t.Error("LoadConfig(bad json) error = nil")
	}
}
