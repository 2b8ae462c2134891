// Package store defines the storage collaborator used by journal workflows.
//
// A Storage searches for entities matching an rdf.Descriptor and creates new
// entities from one. Implementations live in subpackages: kv (over any
// key/value bucket) and rpc (a Connect client for a remote store).
package store

import (
	"context"
	"errors"

	"github.com/tailored-agentic-units/journal/rdf"
)

var (
	// ErrNotFound is returned when a lookup by identifier has no match.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when creating an entity whose identifier
	// is already taken.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidDescriptor is returned for nil or empty descriptors.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)

// Storage is a remote-capable entity store. Both calls may block on I/O and
// must honor ctx. Implementations are safe for concurrent use.
type Storage interface {
	// Search returns the entities matching pattern. An empty result set is
	// not an error.
	Search(ctx context.Context, pattern *rdf.Descriptor) (*rdf.ResultSet, error)

	// Create stores desc as a new entity and returns a result set holding
	// it. When desc.About is empty the store assigns an identifier.
	Create(ctx context.Context, desc *rdf.Descriptor) (*rdf.ResultSet, error)
}

// Validate reports ErrInvalidDescriptor for a nil descriptor or one with
// neither an identifier nor any type.
func Validate(desc *rdf.Descriptor) error {
	if desc == nil {
		return errors.Join(ErrInvalidDescriptor, errors.New("nil descriptor"))
	}
	if desc.About == "" && len(desc.Types) == 0 {
		return errors.Join(ErrInvalidDescriptor, errors.New("descriptor has no identifier or type"))
	}
	return nil
}
