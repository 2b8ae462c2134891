// Package createevent implements the create_event command: a form that
// collects an event's title, description, time span, and location, and a
// submission workflow that resolves the owner and stores an interval and an
// event entity.
package createevent

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/journal/command"
	"github.com/tailored-agentic-units/journal/config"
	"github.com/tailored-agentic-units/journal/form"
	"github.com/tailored-agentic-units/journal/identity"
	"github.com/tailored-agentic-units/journal/observability"
	"github.com/tailored-agentic-units/journal/rdf"
	"github.com/tailored-agentic-units/journal/resolver"
	"github.com/tailored-agentic-units/journal/store"
)

const (
	Name        = "create_event"
	Description = "Create Event"
)

// Form field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStart       = "event_start"
	FieldStop        = "event_stop"
	FieldLocations   = "locations"
)

// Driver runs create_event. One Driver serves any number of concurrent runs;
// per-run state lives in the chain value.
type Driver struct {
	storage  store.Storage
	identity identity.Provider
	resolver *resolver.Resolver
	observer observability.Observer
	cfg      config.CreateEventConfig
}

var _ command.Command = (*Driver)(nil)

// Option configures a Driver.
type Option func(*Driver)

// WithConfig merges cfg over the defaults.
func WithConfig(cfg config.CreateEventConfig) Option {
	return func(d *Driver) {
		d.cfg.Merge(&cfg)
	}
}

// WithObserver sets the observer for transition and chain events. A
// non-empty chain observer name in the config takes precedence.
func WithObserver(o observability.Observer) Option {
	return func(d *Driver) {
		d.observer = o
	}
}

// New creates a Driver over storage. ident may be nil, in which case creator
// attribution is omitted. It fails if the configured chain observer is not
// registered.
func New(storage store.Storage, ident identity.Provider, opts ...Option) (*Driver, error) {
	d := &Driver{
		storage:  storage,
		identity: ident,
		cfg:      config.DefaultCreateEventConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if name := d.cfg.Chain.Observer; name != "" {
		observer, err := observability.GetObserver(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		d.observer = observer
	}
	d.observer = observability.OrNoOp(d.observer)
	d.resolver = resolver.New(storage,
		resolver.WithLimit(d.cfg.MaxLocations),
		resolver.WithSearchTimeout(d.cfg.SearchTimeout.Std()),
		resolver.WithObserver(d.observer),
	)
	return d, nil
}

func (d *Driver) Name() string        { return Name }
func (d *Driver) Description() string { return Description }

// Start builds the event form. The locations field lists spatial things
// ranked by graph degree; the search is bounded by the configured timeout
// and a timeout fails Start with chain.ErrTimeout.
func (d *Driver) Start(ctx context.Context) (*form.Form, error) {
	d.transition(ctx, "", CollectingForm, nil)

	candidates, rs, err := d.resolver.Candidates(ctx, rdf.NewDescriptor(rdf.TypeSpatialThing))
	if err != nil {
		d.transition(ctx, "", Failed, map[string]any{"from": CollectingForm.String(), "error": err.Error()})
		return nil, fmt.Errorf("searching locations: %w", err)
	}

	locations := form.Field{
		Var:     FieldLocations,
		Label:   "Location",
		Type:    form.ListSingle,
		Options: make([]form.Option, 0, len(candidates)),
		Sources: rs.Sources,
	}
	for _, c := range candidates {
		locations.Options = append(locations.Options, form.Option{
			Value: c.About,
			Label: c.Label,
			Data:  map[string]any{"degree": c.Degree},
		})
	}

	return &form.Form{
		Title:        Description,
		Instructions: "Describe the event. Leave the location empty if it has none.",
		Fields: []form.Field{
			{Var: FieldTitle, Label: "Title", Type: form.TextSingle},
			{Var: FieldDescription, Label: "Description", Type: form.TextMulti},
			{Var: FieldStart, Label: "Start", Type: form.TextSingle},
			{Var: FieldStop, Label: "Stop", Type: form.TextSingle},
			locations,
		},
	}, nil
}

// Submit runs the workflow and acknowledges with the created event's
// identifier and the resolved roles.
func (d *Driver) Submit(ctx context.Context, submission form.Submission) (command.Result, error) {
	out, err := d.Execute(ctx, submission)
	if err != nil {
		return command.Result{}, err
	}

	fields := make(map[string]string)
	for role, id := range out.Roles.Snapshot() {
		fields[string(role)] = id
	}
	return command.Result{ID: out.EventID, Fields: fields}, nil
}

func (d *Driver) transition(ctx context.Context, runID string, to State, data map[string]any) {
	level := observability.LevelInfo
	if to == Failed {
		level = observability.LevelWarning
	}
	if data == nil {
		data = map[string]any{}
	}
	data["state"] = to.String()
	if runID != "" {
		data["run_id"] = runID
	}
	d.observer.OnEvent(ctx, observability.NewEvent(EventTransition, level, "createevent", data))
}
