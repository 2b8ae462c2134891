package accumulator_test

import (
	"context"
	"slices"
	"testing"

	"github.com/tailored-agentic-units/journal/accumulator"
	"github.com/tailored-agentic-units/journal/observability"
)

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func TestAccumulator_New(t *testing.T) {
	tests := []struct {
		name     string
		observer observability.Observer
	}{
		{name: "with NoOpObserver", observer: observability.NoOpObserver{}},
		{name: "with nil observer", observer: nil},
		{name: "with capture observer", observer: &captureObserver{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := accumulator.New(tt.observer)

			if len(a.Roles()) != 0 {
				t.Errorf("New accumulator has roles %v", a.Roles())
			}
			if a.RunID() == "" {
				t.Error("New accumulator has empty run id")
			}
		})
	}
}

func TestAccumulator_New_EmitsEvent(t *testing.T) {
	observer := &captureObserver{}
	accumulator.New(observer)

	if len(observer.events) != 1 {
		t.Fatalf("New() emitted %d events, want 1", len(observer.events))
	}
	if observer.events[0].Type != accumulator.EventCreate {
		t.Errorf("New() emitted event type %v, want %v", observer.events[0].Type, accumulator.EventCreate)
	}
}

func TestAccumulator_SetIsImmutable(t *testing.T) {
	a0 := accumulator.New(nil)
	a1 := a0.Set(accumulator.RoleLocation, "urn:place")
	a2 := a1.Set(accumulator.RoleOwner, "urn:owner")

	if a0.Has(accumulator.RoleLocation) {
		t.Error("Set modified the original accumulator")
	}
	if a1.Has(accumulator.RoleOwner) {
		t.Error("a2.Set leaked into a1")
	}

	if v, ok := a2.Get(accumulator.RoleLocation); !ok || v != "urn:place" {
		t.Errorf("a2 lost location: got (%q, %v)", v, ok)
	}
	if v, ok := a2.Get(accumulator.RoleOwner); !ok || v != "urn:owner" {
		t.Errorf("a2 owner = (%q, %v), want urn:owner", v, ok)
	}

	if a0.RunID() != a2.RunID() {
		t.Error("Set changed the run id")
	}
}

func TestAccumulator_Overwrite(t *testing.T) {
	a := accumulator.New(nil).
		Set(accumulator.RoleOwner, "urn:first").
		Set(accumulator.RoleOwner, "urn:second")

	if v, _ := a.Get(accumulator.RoleOwner); v != "urn:second" {
		t.Errorf("owner = %q, want urn:second", v)
	}
}

func TestAccumulator_RolesAndSnapshot(t *testing.T) {
	a := accumulator.New(nil).
		Set(accumulator.RoleOwner, "o").
		Set(accumulator.RoleInterval, "i")

	want := []accumulator.Role{accumulator.RoleInterval, accumulator.RoleOwner}
	if got := a.Roles(); !slices.Equal(got, want) {
		t.Errorf("Roles() = %v, want %v", got, want)
	}

	snap := a.Snapshot()
	snap[accumulator.RoleLocation] = "mutated"
	if a.Has(accumulator.RoleLocation) {
		t.Error("mutating a snapshot changed the accumulator")
	}
}

func TestAccumulator_SetEmitsEvent(t *testing.T) {
	observer := &captureObserver{}
	a := accumulator.New(observer)
	observer.events = nil

	a.Set(accumulator.RoleInterval, "urn:interval")

	if len(observer.events) != 1 {
		t.Fatalf("Set() emitted %d events, want 1", len(observer.events))
	}
	event := observer.events[0]
	if event.Type != accumulator.EventSet {
		t.Errorf("event type = %v, want %v", event.Type, accumulator.EventSet)
	}
	if event.Data["role"] != "interval" {
		t.Errorf("event role = %v, want interval", event.Data["role"])
	}
}

func TestAccumulator_ZeroValue(t *testing.T) {
	var a accumulator.Accumulator
	a = a.Set(accumulator.RoleOwner, "o")
	if !a.Has(accumulator.RoleOwner) {
		t.Error("zero Accumulator should accept Set")
	}
}
