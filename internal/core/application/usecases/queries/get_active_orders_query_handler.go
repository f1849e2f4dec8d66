package queries

import (
	"context"

	"assetsync/internal/core/domain/model/change"
)

// GetActiveOrdersQueryHandler returns the same projection subscribers receive
// in OrderChanged events.
type GetActiveOrdersQueryHandler struct {
	orders OrderReader
}

func NewGetActiveOrdersQueryHandler(orders OrderReader) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{orders: orders}
}

func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]change.OrderSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]change.OrderSnapshot, 0, len(orders))
	for _, o := range orders {
		response = append(response, change.SnapshotOrder(o))
	}
	return response, nil
}
