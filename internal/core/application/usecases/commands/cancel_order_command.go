package commands

import (
	"errors"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels a pending or active order.
type CancelOrderCommand struct {
	orderID kernel.ID
	guard   guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.ID) (CancelOrderCommand, error) {
	if err := orderID.ValidateAs("order_id"); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.ID {
	return c.orderID
}
