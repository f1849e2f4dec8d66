package memory

import (
	"context"
	"errors"
	"slices"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/ports"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes until Commit. Without Begin every repository call
// is applied on its own.
type UnitOfWork struct {
	store  *Store
	active bool
	held   []rowKey
	staged []write
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer uow.finish()

	if len(uow.staged) == 0 {
		return nil
	}
	return uow.store.commit(uow.staged)
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.finish()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

func (uow *UnitOfWork) ContainerRepository() ports.ContainerRepository {
	return &ContainerRepository{uow: uow}
}

func (uow *UnitOfWork) VehicleRepository() ports.VehicleRepository {
	return &VehicleRepository{store: uow.store}
}

func (uow *UnitOfWork) finish() {
	for _, key := range uow.held {
		uow.store.unlockRow(key)
	}
	uow.held = nil
	uow.staged = nil
	uow.active = false
}

func (uow *UnitOfWork) lock(ctx context.Context, key rowKey) error {
	if !uow.active || slices.Contains(uow.held, key) {
		return nil
	}
	if err := uow.store.lockRow(ctx, key); err != nil {
		return err
	}
	uow.held = append(uow.held, key)
	return nil
}

// stage records w, or applies it at once outside a transaction. A staged
// update is checked against the current version immediately as well, the way
// an UPDATE ... WHERE version = ? inside a transaction would be.
func (uow *UnitOfWork) stage(w write) error {
	if !uow.active {
		return uow.store.commit([]write{w})
	}

	if prev := uow.stagedIndex(w.key); prev >= 0 {
		w.expected = uow.staged[prev].expected
		w.insert = uow.staged[prev].insert
		w.orderBefore = uow.staged[prev].orderBefore
		w.containerBefore = uow.staged[prev].containerBefore
		uow.staged[prev] = w
		return nil
	}

	uow.store.mu.Lock()
	err := uow.store.check(w)
	uow.store.mu.Unlock()
	if err != nil {
		return err
	}

	uow.staged = append(uow.staged, w)
	return nil
}

func (uow *UnitOfWork) stagedIndex(key rowKey) int {
	for i, w := range uow.staged {
		if w.key == key {
			return i
		}
	}
	return -1
}

func (uow *UnitOfWork) stagedOrder(key rowKey) (order.State, bool) {
	if i := uow.stagedIndex(key); i >= 0 {
		return *uow.staged[i].orderAfter, true
	}
	return order.State{}, false
}

func (uow *UnitOfWork) stagedContainer(key rowKey) (container.State, bool) {
	if i := uow.stagedIndex(key); i >= 0 {
		return *uow.staged[i].containerAfter, true
	}
	return container.State{}, false
}

func orderKey(o *order.Order) rowKey {
	return rowKey{table: change.TableOrders, id: o.ID()}
}

func containerKey(c *container.Container) rowKey {
	return rowKey{table: change.TableContainers, id: c.ID()}
}
