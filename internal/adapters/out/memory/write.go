package memory

import (
	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/order"
)

// write is one staged row mutation. expected is the version the row must
// still carry at commit; inserts expect the row to be absent.
type write struct {
	key      rowKey
	insert   bool
	expected int64

	orderBefore     *order.State
	orderAfter      *order.State
	containerBefore *container.State
	containerAfter  *container.State
}

func (w write) rowChange() (change.RowChange, error) {
	switch w.key.table {
	case change.TableOrders:
		before, err := restoreOrder(w.orderBefore)
		if err != nil {
			return change.RowChange{}, err
		}
		after, err := order.RestoreOrder(*w.orderAfter)
		if err != nil {
			return change.RowChange{}, err
		}
		return change.OrderRowChange(before, after)
	default:
		before, err := restoreContainer(w.containerBefore)
		if err != nil {
			return change.RowChange{}, err
		}
		after, err := container.RestoreContainer(*w.containerAfter)
		if err != nil {
			return change.RowChange{}, err
		}
		return change.ContainerRowChange(before, after)
	}
}

func restoreOrder(st *order.State) (*order.Order, error) {
	if st == nil {
		return nil, nil
	}
	return order.RestoreOrder(*st)
}

func restoreContainer(st *container.State) (*container.Container, error) {
	if st == nil {
		return nil, nil
	}
	return container.RestoreContainer(*st)
}
