// Package accumulator holds the partial results of a running workflow: the
// identifiers produced by earlier steps, keyed by the role they play for the
// steps that follow.
package accumulator

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/journal/observability"
)

// Role names a slot in the accumulator.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleLocation Role = "location"
	RoleInterval Role = "interval"
)

const (
	EventCreate observability.EventType = "accumulator.create"
	EventSet    observability.EventType = "accumulator.set"
)

// Accumulator is an immutable role → identifier mapping threaded through the
// steps of one workflow run. Set returns a new value; earlier values keep
// every role they held.
type Accumulator struct {
	values   map[Role]string
	observer observability.Observer
	runID    string
	created  time.Time
}

// New creates an empty Accumulator for a new run. A nil observer disables
// events.
func New(observer observability.Observer) Accumulator {
	a := Accumulator{
		values:   map[Role]string{},
		observer: observability.OrNoOp(observer),
		runID:    uuid.NewString(),
		created:  time.Now(),
	}

	a.observer.OnEvent(context.Background(), observability.NewEvent(
		EventCreate, observability.LevelVerbose, "accumulator",
		map[string]any{"run_id": a.runID},
	))

	return a
}

// RunID identifies the workflow run this accumulator belongs to.
func (a Accumulator) RunID() string {
	return a.runID
}

// Created reports when the run started.
func (a Accumulator) Created() time.Time {
	return a.created
}

// Get returns the identifier stored for role.
func (a Accumulator) Get(role Role) (string, bool) {
	v, ok := a.values[role]
	return v, ok
}

// Has reports whether role is set.
func (a Accumulator) Has(role Role) bool {
	_, ok := a.values[role]
	return ok
}

// Set returns a copy of a with role bound to value. a itself is unchanged.
func (a Accumulator) Set(role Role, value string) Accumulator {
	next := a
	next.values = maps.Clone(a.values)
	if next.values == nil {
		next.values = map[Role]string{}
	}
	next.values[role] = value

	next.obs().OnEvent(context.Background(), observability.NewEvent(
		EventSet, observability.LevelVerbose, "accumulator",
		map[string]any{"run_id": a.runID, "role": string(role), "value": value},
	))

	return next
}

// Roles returns the set roles in sorted order.
func (a Accumulator) Roles() []Role {
	return slices.Sorted(maps.Keys(a.values))
}

// Snapshot returns a copy of the current bindings.
func (a Accumulator) Snapshot() map[Role]string {
	snapshot := make(map[Role]string, len(a.values))
	maps.Copy(snapshot, a.values)
	return snapshot
}

func (a Accumulator) obs() observability.Observer {
	return observability.OrNoOp(a.observer)
}
