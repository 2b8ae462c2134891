// Package command defines form-driven bot commands and the registry that
// exposes them by name.
package command

import (
	"context"

	"github.com/tailored-agentic-units/journal/form"
)

// Command is a two-phase interaction: Start returns the form to present and
// Submit acts on the completed form.
type Command interface {
	Name() string
	Description() string
	Start(ctx context.Context) (*form.Form, error)
	Submit(ctx context.Context, submission form.Submission) (Result, error)
}

// Result is the acknowledgement of a completed command. ID names the entity
// the command produced, if any.
type Result struct {
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Info describes a registered command.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
