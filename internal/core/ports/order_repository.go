// Package ports defines the contracts between the assignment core and its
// storage and transport adapters.
package ports

import (
	"context"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Writes are compare-and-swap on the aggregate version: Update succeeds only
// when the stored row still carries aggregate.Version(), and on success the
// aggregate is advanced with MarkPersisted.
type OrderRepository interface {
	// Add persists a new order. An existing id yields a ConflictError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	// Returns VersionConflictError when another writer updated the row first.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id without locking.
	Get(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the enclosing
	// transaction ends.
	GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetActiveByContainer returns the active order holding the container.
	// Returns ObjectNotFoundError when the container is idle.
	GetActiveByContainer(ctx context.Context, containerID kernel.ID) (*order.Order, error)

	// ListActive returns every order in confirmed..delivered, oldest first.
	ListActive(ctx context.Context) ([]*order.Order, error)
}
