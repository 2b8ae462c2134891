package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/journal/form"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrLimit    = errors.New("session limit reached")
)

// Manager opens, looks up, and closes sessions.
type Manager interface {
	// Open starts a session for command. The session context derives from
	// parent and is cancelled by Close.
	Open(parent context.Context, command string, f *form.Form) (Session, error)
	Get(id string) (Session, error)
	// Close cancels the session context and forgets the session.
	Close(id string) error
	// IDs returns the open session identifiers in creation order.
	IDs() []string
}

type memorySession struct {
	id      string
	command string
	form    *form.Form
	ctx     context.Context
	cancel  context.CancelFunc
	created time.Time
}

func (s *memorySession) ID() string               { return s.id }
func (s *memorySession) Command() string          { return s.command }
func (s *memorySession) Form() *form.Form         { return s.form }
func (s *memorySession) Context() context.Context { return s.ctx }
func (s *memorySession) Created() time.Time       { return s.created }

type memoryManager struct {
	sessions map[string]*memorySession
	limit    int
	mu       sync.RWMutex
}

// NewMemoryManager creates a Manager holding sessions in memory. Sessions
// are assigned UUIDv7 identifiers. limit caps open sessions; zero is unlimited.
func NewMemoryManager(limit int) Manager {
	return &memoryManager{
		sessions: make(map[string]*memorySession),
		limit:    limit,
	}
}

func (m *memoryManager) Open(parent context.Context, command string, f *form.Form) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.limit > 0 && len(m.sessions) >= m.limit {
		return nil, fmt.Errorf("%w: %d open", ErrLimit, len(m.sessions))
	}

	ctx, cancel := context.WithCancel(parent)
	s := &memorySession{
		id:      uuid.Must(uuid.NewV7()).String(),
		command: command,
		form:    f,
		ctx:     ctx,
		cancel:  cancel,
		created: time.Now(),
	}
	m.sessions[s.id] = s
	return s, nil
}

func (m *memoryManager) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

func (m *memoryManager) Close(id string) error {
	m.mu.Lock()
	s, exists := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.cancel()
	return nil
}

func (m *memoryManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	// UUIDv7 sorts by creation time
	slices.Sort(ids)
	return ids
}
