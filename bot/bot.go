// Package bot implements the runtime that hosts form-driven commands: it
// builds the storage and identity collaborators from configuration,
// registers the built-in commands by name, and runs each conversation's
// submission in its own session.
//
//	rt, err := bot.New(&cfg)
//	sess, err := rt.Start(ctx, "create_event")
//	result, err := rt.Submit(sess.ID(), submission).Await(ctx)
package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tailored-agentic-units/journal/chain"
	"github.com/tailored-agentic-units/journal/command"
	"github.com/tailored-agentic-units/journal/command/createevent"
	"github.com/tailored-agentic-units/journal/form"
	"github.com/tailored-agentic-units/journal/identity"
	"github.com/tailored-agentic-units/journal/observability"
	"github.com/tailored-agentic-units/journal/session"
	"github.com/tailored-agentic-units/journal/store"
	"github.com/tailored-agentic-units/journal/store/backend"
)

// Option configures a Runtime after config-driven initialization.
// Overrides replace config-created defaults before commands are registered.
type Option func(*Runtime)

// WithStorage overrides the config-created storage.
func WithStorage(s store.Storage) Option {
	return func(r *Runtime) { r.storage = s }
}

// WithIdentity overrides the config-created identity.
func WithIdentity(p identity.Provider) Option {
	return func(r *Runtime) { r.identity = p }
}

// WithSessions overrides the config-created session manager.
func WithSessions(m session.Manager) Option {
	return func(r *Runtime) { r.sessions = m }
}

// WithObserver overrides the observer named in configuration.
func WithObserver(o observability.Observer) Option {
	return func(r *Runtime) { r.observer = o }
}

// Runtime hosts commands and their sessions.
type Runtime struct {
	commands *command.Registry
	sessions session.Manager
	storage  store.Storage
	identity identity.Provider
	observer observability.Observer
	closers  []func() error

	base   context.Context
	cancel context.CancelFunc

	inflight map[string]bool
	mu       sync.Mutex
}

// New creates a Runtime from configuration. Storage, identity, sessions, and
// the observer are initialized from their config sections; options applied
// afterwards can override any of them. The create_event command is
// registered with the resulting collaborators.
func New(cfg *Config, opts ...Option) (*Runtime, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	sessions, err := session.New(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	r := &Runtime{
		commands: command.NewRegistry(),
		sessions: sessions,
		observer: observer,
		inflight: make(map[string]bool),
	}
	if cfg.Identity != "" {
		r.identity = identity.Static(cfg.Identity)
	}

	for _, opt := range opts {
		opt(r)
	}
	r.observer = observability.OrNoOp(r.observer)

	if r.storage == nil {
		storage, closeFn, err := backend.Open(&cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		r.storage = storage
		r.closers = append(r.closers, closeFn)
	}

	r.base, r.cancel = context.WithCancel(context.Background())

	driver, err := createevent.New(r.storage, r.identity,
		createevent.WithConfig(cfg.CreateEvent),
		createevent.WithObserver(r.observer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", createevent.Name, err)
	}
	if err := r.commands.Register(driver); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", driver.Name(), err)
	}

	return r, nil
}

// Register adds a command to the runtime.
func (r *Runtime) Register(cmd command.Command) error {
	return r.commands.Register(cmd)
}

// Commands lists the registered commands.
func (r *Runtime) Commands() []command.Info {
	return r.commands.List()
}

// Storage returns the storage collaborator shared by all commands.
func (r *Runtime) Storage() store.Storage {
	return r.storage
}

// Start invokes the named command's first phase and opens a session holding
// its form. The session outlives ctx; it ends on Submit completion or Cancel.
func (r *Runtime) Start(ctx context.Context, name string) (session.Session, error) {
	cmd, err := r.commands.Get(name)
	if err != nil {
		return nil, err
	}

	f, err := cmd.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	sess, err := r.sessions.Open(r.base, name, f)
	if err != nil {
		return nil, err
	}

	r.observer.OnEvent(ctx, observability.NewEvent(EventSessionOpen, observability.LevelInfo, "bot.Runtime", map[string]any{
		"session": sess.ID(),
		"command": name,
	}))
	return sess, nil
}

// Submit runs the session's command with submission on its own goroutine.
// The session is closed once the command finishes, successfully or not.
// Cancel aborts the run before its next store call.
func (r *Runtime) Submit(id string, submission form.Submission) *chain.Future[command.Result] {
	sess, cmd, err := r.claim(id)
	if err != nil {
		return chain.Go(context.Background(), func(context.Context) (command.Result, error) {
			return command.Result{}, err
		})
	}

	return chain.Go(sess.Context(), func(ctx context.Context) (command.Result, error) {
		// The session must be gone before the in-flight claim is dropped.
		defer r.release(id)

		r.observer.OnEvent(ctx, observability.NewEvent(EventSubmitStart, observability.LevelInfo, "bot.Runtime", map[string]any{
			"session": id,
			"command": cmd.Name(),
		}))

		res, err := cmd.Submit(ctx, submission)

		level := observability.LevelInfo
		data := map[string]any{"session": id, "command": cmd.Name(), "id": res.ID}
		if err != nil {
			level = observability.LevelWarning
			data["error"] = err.Error()
		}
		r.observer.OnEvent(ctx, observability.NewEvent(EventSubmitComplete, level, "bot.Runtime", data))

		if closeErr := r.close(ctx, id); closeErr != nil && !errors.Is(closeErr, session.ErrNotFound) {
			return res, errors.Join(err, closeErr)
		}
		return res, err
	})
}

// Cancel closes the session, cancelling any submission in flight.
func (r *Runtime) Cancel(ctx context.Context, id string) error {
	return r.close(ctx, id)
}

// Close cancels every session and releases the storage.
func (r *Runtime) Close() error {
	r.cancel()
	var errs []error
	for _, id := range r.sessions.IDs() {
		if err := r.sessions.Close(id); err != nil && !errors.Is(err, session.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	for _, closeFn := range r.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) claim(id string) (session.Session, command.Command, error) {
	sess, err := r.sessions.Get(id)
	if err != nil {
		return nil, nil, err
	}
	cmd, err := r.commands.Get(sess.Command())
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[id] {
		return nil, nil, fmt.Errorf("%w: %s", ErrSessionBusy, id)
	}
	r.inflight[id] = true
	return sess, cmd, nil
}

func (r *Runtime) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, id)
}

func (r *Runtime) close(ctx context.Context, id string) error {
	if err := r.sessions.Close(id); err != nil {
		return err
	}
	r.observer.OnEvent(ctx, observability.NewEvent(EventSessionClose, observability.LevelVerbose, "bot.Runtime", map[string]any{
		"session": id,
	}))
	return nil
}
