package createevent

import "github.com/tailored-agentic-units/journal/observability"

// State is a stage of one create_event run.
type State int

const (
	CollectingForm State = iota
	ResolvingLocation
	ResolvingOwner
	CreatingInterval
	CreatingEvent
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case CollectingForm:
		return "collecting_form"
	case ResolvingLocation:
		return "resolving_location"
	case ResolvingOwner:
		return "resolving_owner"
	case CreatingInterval:
		return "creating_interval"
	case CreatingEvent:
		return "creating_event"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

const (
	// EventTransition is emitted on every state change.
	EventTransition observability.EventType = "createevent.transition"

	// EventOwnerAmbiguous is emitted when the owner search matches more than
	// one entity.
	EventOwnerAmbiguous observability.EventType = "createevent.owner_ambiguous"
)
