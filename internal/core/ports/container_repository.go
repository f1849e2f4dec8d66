package ports

import (
	"context"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/vehicle"
)

// ContainerRepository defines the persistence contract for container aggregates.
// Update follows the same version compare-and-swap rule as OrderRepository.
type ContainerRepository interface {
	Add(ctx context.Context, aggregate *container.Container) error
	Update(ctx context.Context, aggregate *container.Container) error
	Get(ctx context.Context, id kernel.ID) (*container.Container, error)
	GetForUpdate(ctx context.Context, id kernel.ID) (*container.Container, error)

	// List returns all containers ordered by id.
	List(ctx context.Context) ([]*container.Container, error)
}

// VehicleRepository reads vehicles registered by the operator directory.
type VehicleRepository interface {
	Add(ctx context.Context, v *vehicle.Vehicle) error
	Get(ctx context.Context, id kernel.ID) (*vehicle.Vehicle, error)
}
