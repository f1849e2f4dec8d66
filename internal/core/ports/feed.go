package ports

import (
	"context"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/location"
)

// ChangeStream is a source of committed row changes. Changes may arrive more
// than once; consumers deduplicate by RowChange.DedupeKey.
//
// The returned channel is closed when ctx is done or the stream fails for
// good; a stream that cannot be opened returns an UnavailableError.
type ChangeStream interface {
	Changes(ctx context.Context) (<-chan change.RowChange, error)
}

// LocationPublisher receives accepted location samples. Implementations must
// not block the caller on slow consumers.
type LocationPublisher interface {
	PublishLocation(ctx context.Context, sample location.Sample) error
}

// OrderLocator resolves the container an order currently references.
type OrderLocator interface {
	ContainerOf(ctx context.Context, orderID kernel.ID) (kernel.ID, error)
}
