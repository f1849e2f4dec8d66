package commands

import (
	"errors"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/guard"
)

var ErrTakeOrderCommandIsNotConstructed = errors.New(
	"TakeOrderCommand must be created via NewTakeOrderCommand constructor",
)

// TakeOrderCommand asks to assign a pending order, and the container it
// references, to an operator and one of the operator's vehicles.
//
// Example:
//
//	cmd, err := NewTakeOrderCommand(131, 96, 1)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type TakeOrderCommand struct {
	orderID    kernel.ID
	operatorID kernel.ID
	vehicleID  kernel.ID

	guard guard.ConstructorGuard
}

func NewTakeOrderCommand(orderID, operatorID, vehicleID kernel.ID) (TakeOrderCommand, error) {
	if err := errors.Join(
		orderID.ValidateAs("order_id"),
		operatorID.ValidateAs("operator_id"),
		vehicleID.ValidateAs("vehicle_id"),
	); err != nil {
		return TakeOrderCommand{}, err
	}

	return TakeOrderCommand{
		orderID:    orderID,
		operatorID: operatorID,
		vehicleID:  vehicleID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TakeOrderCommand) Validate() error {
	return c.guard.Validate(ErrTakeOrderCommandIsNotConstructed)
}

func (c TakeOrderCommand) OrderID() kernel.ID    { return c.orderID }
func (c TakeOrderCommand) OperatorID() kernel.ID { return c.operatorID }
func (c TakeOrderCommand) VehicleID() kernel.ID  { return c.vehicleID }
