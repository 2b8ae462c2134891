package bot

import "github.com/tailored-agentic-units/journal/observability"

// Runtime event types.
const (
	EventSessionOpen    observability.EventType = "bot.session.open"
	EventSessionClose   observability.EventType = "bot.session.close"
	EventSubmitStart    observability.EventType = "bot.submit.start"
	EventSubmitComplete observability.EventType = "bot.submit.complete"
)
