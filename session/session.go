// Package session tracks the conversations with an open command: which
// command was started, the form it presented, and the context that bounds
// the command's work until the conversation ends.
package session

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/journal/form"
)

// Session is one conversation's use of a command. Implementations must be
// safe for concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// Command returns the name of the command the session runs.
	Command() string
	// Form returns the form presented when the session opened.
	Form() *form.Form
	// Context is cancelled when the session is closed.
	Context() context.Context
	// Created reports when the session was opened.
	Created() time.Time
}
