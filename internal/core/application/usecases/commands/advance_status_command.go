package commands

import (
	"errors"
	"fmt"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand moves an active order to processing, shipped or
// delivered. Completing and cancelling have their own commands.
type AdvanceStatusCommand struct {
	orderID kernel.ID
	status  order.Status
	guard   guard.ConstructorGuard
}

func NewAdvanceStatusCommand(orderID kernel.ID, status order.Status) (AdvanceStatusCommand, error) {
	var statusErr error
	if !status.IsIntermediate() {
		statusErr = errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not an intermediate status", status))
	}

	if err := errors.Join(orderID.ValidateAs("order_id"), statusErr); err != nil {
		return AdvanceStatusCommand{}, err
	}

	return AdvanceStatusCommand{orderID: orderID, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

func (c AdvanceStatusCommand) OrderID() kernel.ID   { return c.orderID }
func (c AdvanceStatusCommand) Status() order.Status { return c.status }
