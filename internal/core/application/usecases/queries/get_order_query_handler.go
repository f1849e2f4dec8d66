package queries

import (
	"context"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"
)

// GetOrderQueryHandler also serves as the feed's OrderLocator: an order-scoped
// subscription needs the order's container before the first OrderChanged event.
type GetOrderQueryHandler struct {
	orders OrderReader
}

func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (change.OrderSnapshot, error) {
	if err := query.Validate(); err != nil {
		return change.OrderSnapshot{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return change.OrderSnapshot{}, err
	}
	return change.SnapshotOrder(o), nil
}

// ContainerOf implements ports.OrderLocator.
func (h GetOrderQueryHandler) ContainerOf(ctx context.Context, orderID kernel.ID) (kernel.ID, error) {
	query, err := NewGetOrderQuery(orderID)
	if err != nil {
		return 0, err
	}

	snapshot, err := h.Handle(ctx, query)
	if err != nil {
		return 0, err
	}
	return snapshot.ContainerID, nil
}
