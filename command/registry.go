package command

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps command names to commands. The zero value is not usable;
// create one with NewRegistry.
type Registry struct {
	entries map[string]Command
	mu      sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Command)}
}

// Register adds cmd under cmd.Name().
// Returns ErrAlreadyExists if a command with the same name is already registered.
// Use Replace to update an existing command.
func (r *Registry) Register(cmd Command) error {
	name := cmd.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	r.entries[name] = cmd
	return nil
}

// Replace updates an existing command.
// Returns ErrNotFound if no command with the given name is registered.
func (r *Registry) Replace(cmd Command) error {
	name := cmd.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	r.entries[name] = cmd
	return nil
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, exists := r.entries[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cmd, nil
}

// List returns the registered commands sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.entries))
	for _, cmd := range r.entries {
		infos = append(infos, Info{Name: cmd.Name(), Description: cmd.Description()})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}
