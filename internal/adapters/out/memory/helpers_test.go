package memory_test

import (
	"context"
	"testing"
	"time"

	"assetsync/internal/adapters/out/memory"
	"assetsync/internal/core/application/tracking"
	"assetsync/internal/core/application/usecases/commands"
	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/domain/model/vehicle"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var seededAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type commandFactory struct{ f *memory.UnitOfWorkFactory }

func (c commandFactory) Create() commands.UoW { return c.f.Create() }

type trackingFactory struct{ f *memory.UnitOfWorkFactory }

func (c trackingFactory) Create() tracking.UoW { return c.f.Create() }

// openedStream hands the router a feed opened before Run starts.
type openedStream <-chan change.RowChange

func (s openedStream) Changes(context.Context) (<-chan change.RowChange, error) { return s, nil }

func newStore(t *testing.T) (*memory.Store, *memory.UnitOfWorkFactory) {
	t.Helper()
	store := memory.NewStore(zap.NewNop())
	return store, memory.NewUnitOfWorkFactory(store)
}

func seedOrder(t *testing.T, f *memory.UnitOfWorkFactory, id, containerID kernel.ID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, 500, containerID, 950,
		order.Stop{Point: kernel.MustGeoPoint(41.3, 69.2), Address: "Chilonzor 12"},
		order.Stop{Point: kernel.MustGeoPoint(40.1, 65.4), Address: "Navoi terminal"},
		seededAt)
	require.NoError(t, err)
	require.NoError(t, f.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func seedContainer(t *testing.T, f *memory.UnitOfWorkFactory, id kernel.ID) *container.Container {
	t.Helper()
	c, err := container.NewContainer(id, "CNT-"+id.String(), nil, seededAt)
	require.NoError(t, err)
	require.NoError(t, f.Create().ContainerRepository().Add(context.Background(), c))
	return c
}

func seedVehicle(t *testing.T, f *memory.UnitOfWorkFactory, id, ownerID kernel.ID) {
	t.Helper()
	v, err := vehicle.NewVehicle(id, ownerID, "01B777AA", 12)
	require.NoError(t, err)
	require.NoError(t, f.Create().VehicleRepository().Add(context.Background(), v))
}

func mustContainer(t *testing.T, id kernel.ID) *container.Container {
	t.Helper()
	c, err := container.NewContainer(id, "CNT-"+id.String(), nil, seededAt)
	require.NoError(t, err)
	return c
}

func nopLogger() *zap.Logger { return zap.NewNop() }
