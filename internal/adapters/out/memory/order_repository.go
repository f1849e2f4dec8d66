package memory

import (
	"context"
	"sort"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"
)

type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	after := aggregate.State()
	after.Version++
	if err := r.uow.stage(write{key: orderKey(aggregate), insert: true, orderAfter: &after}); err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	key := orderKey(aggregate)
	before, ok := r.current(key)
	if !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	after := aggregate.State()
	after.Version++
	w := write{key: key, expected: aggregate.Version(), orderBefore: &before, orderAfter: &after}
	if err := r.uow.stage(w); err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.ValidateAs("order_id"); err != nil {
		return nil, err
	}

	st, ok := r.current(rowKey{table: change.TableOrders, id: id})
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(st)
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.ValidateAs("order_id"); err != nil {
		return nil, err
	}
	if err := r.uow.lock(ctx, rowKey{table: change.TableOrders, id: id}); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *OrderRepository) GetActiveByContainer(_ context.Context, containerID kernel.ID) (*order.Order, error) {
	for _, st := range r.snapshot() {
		if st.ContainerID == containerID && st.Status.IsActive() {
			return order.RestoreOrder(st)
		}
	}
	return nil, errs.NewObjectNotFoundError("active order for container", containerID)
}

func (r *OrderRepository) ListActive(_ context.Context) ([]*order.Order, error) {
	orders := make([]*order.Order, 0)
	for _, st := range r.snapshot() {
		if !st.Status.IsActive() {
			continue
		}
		o, err := order.RestoreOrder(st)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) current(key rowKey) (order.State, bool) {
	if st, ok := r.uow.stagedOrder(key); ok {
		return st, true
	}
	return r.uow.store.order(key.id)
}

// snapshot merges committed rows with this transaction's staged ones, oldest first.
func (r *OrderRepository) snapshot() []order.State {
	states := r.uow.store.orderStates()
	for i := range states {
		if st, ok := r.uow.stagedOrder(rowKey{table: change.TableOrders, id: states[i].ID}); ok {
			states[i] = st
		}
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].CreatedAt.Equal(states[j].CreatedAt) {
			return states[i].ID < states[j].ID
		}
		return states[i].CreatedAt.Before(states[j].CreatedAt)
	})
	return states
}
