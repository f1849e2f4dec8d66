package commands

import (
	"errors"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand closes an active order and releases its container.
type CompleteOrderCommand struct {
	orderID kernel.ID
	guard   guard.ConstructorGuard
}

func NewCompleteOrderCommand(orderID kernel.ID) (CompleteOrderCommand, error) {
	if err := orderID.ValidateAs("order_id"); err != nil {
		return CompleteOrderCommand{}, err
	}
	return CompleteOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) OrderID() kernel.ID {
	return c.orderID
}
