package memory

import (
	"context"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/vehicle"
	"assetsync/internal/pkg/errs"
)

type ContainerRepository struct {
	uow *UnitOfWork
}

func (r *ContainerRepository) Add(_ context.Context, aggregate *container.Container) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	after := aggregate.State()
	after.Version++
	if err := r.uow.stage(write{key: containerKey(aggregate), insert: true, containerAfter: &after}); err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *ContainerRepository) Update(_ context.Context, aggregate *container.Container) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	key := containerKey(aggregate)
	before, ok := r.current(key)
	if !ok {
		return errs.NewObjectNotFoundError("container", aggregate.ID())
	}

	after := aggregate.State()
	after.Version++
	w := write{key: key, expected: aggregate.Version(), containerBefore: &before, containerAfter: &after}
	if err := r.uow.stage(w); err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *ContainerRepository) Get(_ context.Context, id kernel.ID) (*container.Container, error) {
	if err := id.ValidateAs("container_id"); err != nil {
		return nil, err
	}

	st, ok := r.current(rowKey{table: change.TableContainers, id: id})
	if !ok {
		return nil, errs.NewObjectNotFoundError("container", id)
	}
	return container.RestoreContainer(st)
}

func (r *ContainerRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*container.Container, error) {
	if err := id.ValidateAs("container_id"); err != nil {
		return nil, err
	}
	if err := r.uow.lock(ctx, rowKey{table: change.TableContainers, id: id}); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *ContainerRepository) List(_ context.Context) ([]*container.Container, error) {
	states := r.uow.store.containerStates()
	containers := make([]*container.Container, 0, len(states))
	for _, st := range states {
		if staged, ok := r.uow.stagedContainer(rowKey{table: change.TableContainers, id: st.ID}); ok {
			st = staged
		}
		c, err := container.RestoreContainer(st)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}
	return containers, nil
}

func (r *ContainerRepository) current(key rowKey) (container.State, bool) {
	if st, ok := r.uow.stagedContainer(key); ok {
		return st, true
	}
	return r.uow.store.container(key.id)
}

type VehicleRepository struct {
	store *Store
}

func (r *VehicleRepository) Add(_ context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return r.store.addVehicle(v)
}

func (r *VehicleRepository) Get(_ context.Context, id kernel.ID) (*vehicle.Vehicle, error) {
	if err := id.ValidateAs("vehicle_id"); err != nil {
		return nil, err
	}
	v, ok := r.store.vehicle(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("vehicle", id)
	}
	return v, nil
}
