package identity_test

import (
	"testing"

	"github.com/tailored-agentic-units/journal/identity"
)

func TestURIOf(t *testing.T) {
	tests := []struct {
		name     string
		provider identity.Provider
		want     string
	}{
		{"nil provider", nil, ""},
		{"empty static", identity.Static(""), ""},
		{"static", identity.Static("urn:uuid:me"), "urn:uuid:me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := identity.URIOf(tt.provider); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
