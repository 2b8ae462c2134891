package bot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tailored-agentic-units/journal/bot"
	"github.com/tailored-agentic-units/journal/command"
	"github.com/tailored-agentic-units/journal/form"
	"github.com/tailored-agentic-units/journal/observability"
	"github.com/tailored-agentic-units/journal/rdf"
	"github.com/tailored-agentic-units/journal/session"
	"github.com/tailored-agentic-units/journal/store"
	"github.com/tailored-agentic-units/journal/store/kv"
	"github.com/tailored-agentic-units/journal/store/kv/kvmap"
)

func newRuntime(t *testing.T, opts ...bot.Option) *bot.Runtime {
	t.Helper()
	cfg := bot.DefaultConfig()
	cfg.Identity = "urn:bot:journal"

	opts = append([]bot.Option{bot.WithObserver(observability.NoOpObserver{})}, opts...)
	rt, err := bot.New(&cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func seedOwner(t *testing.T, s store.Storage) string {
	t.Helper()
	rs, err := s.Create(context.Background(), rdf.NewDescriptor(rdf.TypeOwner, rdf.TypePerson))
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	id, _ := rs.First()
	return id
}

func TestNew_RegistersCreateEvent(t *testing.T) {
	rt := newRuntime(t)

	cmds := rt.Commands()
	if len(cmds) != 1 || cmds[0].Name != "create_event" || cmds[0].Description != "Create Event" {
		t.Errorf("Commands() = %+v, want create_event", cmds)
	}
}

func TestNew_UnknownObserver(t *testing.T) {
	cfg := bot.DefaultConfig()
	cfg.Observer = "does-not-exist"

	if _, err := bot.New(&cfg); err == nil {
		t.Error("New() error = nil, want observer resolution error")
	}
}

func TestNew_UnknownCreateEventObserver(t *testing.T) {
	cfg := bot.DefaultConfig()
	cfg.CreateEvent.Chain.Observer = "does-not-exist"

	if _, err := bot.New(&cfg, bot.WithObserver(observability.NoOpObserver{})); err == nil {
		t.Error("New() error = nil, want create_event observer resolution error")
	}
}

func TestStartSubmit(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	owner := seedOwner(t, rt.Storage())

	sess, err := rt.Start(ctx, "create_event")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, ok := sess.Form().Field("locations"); !ok {
		t.Error("session form has no locations field")
	}

	res, err := rt.Submit(sess.ID(), form.Submission{"title": "Launch"}).Await(ctx)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.Fields["owner"] != owner {
		t.Errorf("owner = %q, want %q", res.Fields["owner"], owner)
	}

	events, _ := rt.Storage().Search(ctx, rdf.NewDescriptor(rdf.TypeEvent).AddReference(rdf.DCCreator, "urn:bot:journal"))
	if id, _ := events.First(); id != res.ID {
		t.Errorf("stored event = %q, want %q", id, res.ID)
	}

	// the session is disposed once the workflow finishes
	_, err = rt.Submit(sess.ID(), form.Submission{}).Await(ctx)
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Submit after completion error = %v, want ErrNotFound", err)
	}
}

func TestStart_UnknownCommand(t *testing.T) {
	_, err := newRuntime(t).Start(context.Background(), "delete_event")
	if !errors.Is(err, command.ErrNotFound) {
		t.Errorf("Start error = %v, want ErrNotFound", err)
	}
}

func TestSubmit_OwnerNotFoundDisposesSession(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	sess, err := rt.Start(ctx, "create_event")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err = rt.Submit(sess.ID(), form.Submission{"title": "t"}).Await(ctx)
	if err == nil {
		t.Fatal("Submit error = nil, want owner not found")
	}
	if err := rt.Cancel(ctx, sess.ID()); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Cancel after failure error = %v, want ErrNotFound", err)
	}
}

// blockingStorage holds owner searches until the caller's context ends.
type blockingStorage struct {
	store.Storage
	entered chan struct{}
}

func (b *blockingStorage) Search(ctx context.Context, pattern *rdf.Descriptor) (*rdf.ResultSet, error) {
	if !pattern.HasType(rdf.TypeOwner) {
		return b.Storage.Search(ctx, pattern)
	}
	close(b.entered)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCancel_StopsSubmission(t *testing.T) {
	ctx := context.Background()
	storage := &blockingStorage{Storage: kv.New(kvmap.NewBucket()), entered: make(chan struct{})}
	rt := newRuntime(t, bot.WithStorage(storage))

	sess, err := rt.Start(ctx, "create_event")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	future := rt.Submit(sess.ID(), form.Submission{"title": "t"})
	<-storage.entered

	busy := rt.Submit(sess.ID(), form.Submission{})
	if _, err := busy.Await(ctx); !errors.Is(err, bot.ErrSessionBusy) {
		t.Errorf("concurrent Submit error = %v, want ErrSessionBusy", err)
	}

	if err := rt.Cancel(ctx, sess.ID()); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err = future.Await(waitCtx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit error = %v, want context.Canceled", err)
	}

	rs, _ := storage.Storage.Search(ctx, rdf.NewDescriptor(rdf.TypeInterval))
	if rs.Len() != 0 {
		t.Errorf("cancelled run created %d intervals", rs.Len())
	}
}

func TestClose_CancelsSessions(t *testing.T) {
	cfg := bot.DefaultConfig()
	rt, err := bot.New(&cfg, bot.WithObserver(observability.NoOpObserver{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sess, err := rt.Start(context.Background(), "create_event")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := rt.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sess.Context().Err() == nil {
		t.Error("Close should cancel open sessions")
	}
}

// closeHook runs hook once, before the wrapped manager closes a session.
type closeHook struct {
	session.Manager
	once sync.Once
	hook func(id string)
}

func (m *closeHook) Close(id string) error {
	if m.hook != nil {
		m.once.Do(func() { m.hook(id) })
	}
	return m.Manager.Close(id)
}

func TestSubmit_SessionStaysClaimedUntilClosed(t *testing.T) {
	sessions := &closeHook{Manager: session.NewMemoryManager(0)}
	rt := newRuntime(t, bot.WithSessions(sessions))
	seedOwner(t, rt.Storage())

	sess, err := rt.Start(context.Background(), "create_event")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var second error
	sessions.hook = func(id string) {
		_, second = rt.Submit(id, form.Submission{"title": "again"}).Await(context.Background())
	}

	if _, err := rt.Submit(sess.ID(), form.Submission{"title": "first"}).Await(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !errors.Is(second, bot.ErrSessionBusy) {
		t.Errorf("submit during close = %v, want ErrSessionBusy", second)
	}
}
