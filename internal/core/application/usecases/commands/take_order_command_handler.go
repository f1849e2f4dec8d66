package commands

import (
	"context"
	"time"

	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/domain/services"
)

// TakeOrderCommandHandler assigns a pending order and its container in one
// transaction. Both rows are locked and re-checked before the writes, so of two
// operators racing for the same order or container exactly one succeeds and
// the other receives a ConflictError.
type TakeOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AssignmentPolicy
	retry      RetryPolicy
}

func NewTakeOrderCommandHandler(uowFactory UoWFactory, retry RetryPolicy) TakeOrderCommandHandler {
	return TakeOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAssignmentPolicy(),
		retry:      retry,
	}
}

// Handle returns the updated order.
//
// Errors: ObjectNotFoundError (order, container or vehicle missing),
// InvalidStateError (order not pending), ConflictError (taken concurrently).
func (h TakeOrderCommandHandler) Handle(ctx context.Context, cmd TakeOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var taken *order.Order
	err := h.retry.run(ctx, "take", "order", cmd.OrderID(), func() error {
		var err error
		taken, err = h.attempt(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}

func (h TakeOrderCommandHandler) attempt(ctx context.Context, cmd TakeOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	containersRepo := uow.ContainerRepository()
	vehiclesRepo := uow.VehicleRepository()

	o, err := ordersRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	c, err := containersRepo.GetForUpdate(ctx, o.ContainerID())
	if err != nil {
		return nil, err
	}

	v, err := vehiclesRepo.Get(ctx, cmd.VehicleID())
	if err != nil {
		return nil, err
	}

	if err = h.policy.Take(o, c, v, cmd.OperatorID(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = containersRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
