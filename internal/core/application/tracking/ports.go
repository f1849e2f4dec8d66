package tracking

import (
	"context"

	"assetsync/internal/core/ports"
)

type (
	UoW interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
		OrderRepository() ports.OrderRepository
		ContainerRepository() ports.ContainerRepository
	}

	UoWFactory interface {
		Create() UoW
	}
)
