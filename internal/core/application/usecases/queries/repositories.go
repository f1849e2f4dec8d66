// Package queries contains read operations used by transports to (re)fetch
// current state, for example after a client reconnects to the change feed.
package queries

import (
	"context"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
)

// Read-side subsets of the repository ports. Handlers use repositories that are
// not bound to a transaction.
type (
	OrderReader interface {
		Get(ctx context.Context, id kernel.ID) (*order.Order, error)
		ListActive(ctx context.Context) ([]*order.Order, error)
	}

	ContainerReader interface {
		Get(ctx context.Context, id kernel.ID) (*container.Container, error)
		List(ctx context.Context) ([]*container.Container, error)
	}
)
