package createevent

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/journal/accumulator"
	"github.com/tailored-agentic-units/journal/chain"
	"github.com/tailored-agentic-units/journal/form"
	"github.com/tailored-agentic-units/journal/identity"
	"github.com/tailored-agentic-units/journal/observability"
	"github.com/tailored-agentic-units/journal/rdf"
)

// Outcome is the value threaded through a run. After a failure it holds
// whatever the completed steps produced; those entities remain stored.
type Outcome struct {
	Roles    accumulator.Accumulator
	Interval *rdf.Descriptor
	Event    *rdf.Descriptor
	EventID  string
}

// Execute runs the submission workflow: resolve the location, resolve the
// owner, create the interval, create the event. Steps run strictly in order
// and the first failure ends the run. Cancelling ctx stops the run before
// its next step.
func (d *Driver) Execute(ctx context.Context, submission form.Submission) (Outcome, error) {
	initial := Outcome{Roles: accumulator.New(d.observer)}
	runID := initial.Roles.RunID()

	links := []chain.Link[Outcome]{
		chain.Named(ResolvingLocation.String(), d.enter(runID, ResolvingLocation,
			chain.When(func(Outcome) bool {
				_, ok := submission.Value(FieldLocations)
				return ok
			}, bindRole(accumulator.RoleLocation, d.resolveLocation(submission))),
		)),
		chain.Named(ResolvingOwner.String(), d.enter(runID, ResolvingOwner,
			bindRole(accumulator.RoleOwner, d.resolveOwner(runID)),
		)),
		chain.Named(CreatingInterval.String(), d.enter(runID, CreatingInterval,
			d.createInterval(submission),
		)),
		chain.Named(CreatingEvent.String(), d.enter(runID, CreatingEvent,
			d.createEvent(submission),
		)),
	}

	result, err := chain.RunObserved(ctx, d.observer, d.cfg.Chain, initial, links, nil)
	if err != nil {
		out := initial
		var chainErr *chain.ChainError[Outcome]
		if errors.As(err, &chainErr) {
			out = chainErr.State
			d.transition(ctx, runID, Failed, map[string]any{"from": chainErr.StepName, "error": err.Error()})
		} else {
			d.transition(ctx, runID, Failed, map[string]any{"error": err.Error()})
		}
		return out, err
	}

	d.transition(ctx, runID, Done, map[string]any{"event": result.Final.EventID})
	return result.Final, nil
}

func (d *Driver) enter(runID string, state State, step chain.Step[Outcome]) chain.Step[Outcome] {
	return func(ctx context.Context, o Outcome) (Outcome, error) {
		d.transition(ctx, runID, state, nil)
		return step(ctx, o)
	}
}

// bindRole adapts a lookup into a step that writes only role.
func bindRole(role accumulator.Role, resolve func(context.Context, Outcome) (string, error)) chain.Step[Outcome] {
	return func(ctx context.Context, o Outcome) (Outcome, error) {
		id, err := resolve(ctx, o)
		if err != nil {
			return o, err
		}
		o.Roles = o.Roles.Set(role, id)
		return o, nil
	}
}

func (d *Driver) resolveLocation(submission form.Submission) func(context.Context, Outcome) (string, error) {
	return func(ctx context.Context, _ Outcome) (string, error) {
		selected, _ := submission.Value(FieldLocations)
		desc := rdf.NewDescriptor(rdf.TypeSpatialThing)
		desc.About = selected
		return d.resolver.Resolve(ctx, desc)
	}
}

func (d *Driver) resolveOwner(runID string) func(context.Context, Outcome) (string, error) {
	return func(ctx context.Context, _ Outcome) (string, error) {
		rs, err := d.storage.Search(ctx, rdf.NewDescriptor(rdf.TypeOwner, rdf.TypePerson))
		if err != nil {
			return "", fmt.Errorf("searching owner: %w", err)
		}

		owner, ok := rs.First()
		if !ok {
			return "", ErrOwnerNotFound
		}
		if rs.Len() > 1 {
			d.observer.OnEvent(ctx, observability.NewEvent(EventOwnerAmbiguous, observability.LevelWarning, "createevent", map[string]any{
				"run_id":  runID,
				"matches": rs.Len(),
				"chosen":  owner,
			}))
		}
		return owner, nil
	}
}

func (d *Driver) createInterval(submission form.Submission) chain.Step[Outcome] {
	return func(ctx context.Context, o Outcome) (Outcome, error) {
		desc := rdf.NewDescriptor(rdf.TypeInterval)
		if start, ok := submission.Value(FieldStart); ok {
			desc.AddProperty(rdf.TimelineFrom, start)
		}
		if stop, ok := submission.Value(FieldStop); ok {
			desc.AddProperty(rdf.TimelineTo, stop)
		}
		if creator := identity.URIOf(d.identity); creator != "" {
			desc.AddProperty(rdf.DCCreator, creator)
		}

		rs, err := d.storage.Create(ctx, desc)
		if err != nil {
			return o, fmt.Errorf("%w: %w", ErrIntervalCreationFailed, err)
		}
		id, ok := rs.First()
		if !ok {
			return o, ErrIntervalCreationFailed
		}

		o.Interval = desc
		o.Roles = o.Roles.Set(accumulator.RoleInterval, id)
		return o, nil
	}
}

func (d *Driver) createEvent(submission form.Submission) chain.Step[Outcome] {
	return func(ctx context.Context, o Outcome) (Outcome, error) {
		owner, ok := o.Roles.Get(accumulator.RoleOwner)
		if !ok {
			return o, ErrOwnerNotFound
		}

		desc := rdf.NewDescriptor(rdf.TypeEvent).AddReference(rdf.EventAgent, owner)
		if creator := identity.URIOf(d.identity); creator != "" {
			desc.AddReference(rdf.DCCreator, creator)
		}
		if title, ok := submission.Value(FieldTitle); ok {
			desc.AddProperty(rdf.DCTitle, title)
		}
		if description, ok := submission.Value(FieldDescription); ok {
			desc.AddProperty(rdf.DCDesc, description)
		}
		if place, ok := o.Roles.Get(accumulator.RoleLocation); ok {
			desc.AddReference(rdf.EventPlace, place)
		}
		if interval, ok := o.Roles.Get(accumulator.RoleInterval); ok {
			desc.AddReference(rdf.EventTime, interval)
		}

		rs, err := d.storage.Create(ctx, desc)
		if err != nil {
			return o, fmt.Errorf("%w: %w", ErrEventCreationFailed, err)
		}
		id, ok := rs.First()
		if !ok {
			return o, ErrEventCreationFailed
		}

		o.Event = desc
		o.EventID = id
		return o, nil
	}
}
