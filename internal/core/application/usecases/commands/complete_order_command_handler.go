package commands

import (
	"context"
	"time"

	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/domain/services"
)

// CompleteOrderCommandHandler completes an order and releases its container,
// recording the order in the container's complete_order.
//
// The container must still be assigned to the order's transporter and vehicle;
// otherwise the handler fails with InvalidStateError and writes nothing.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AssignmentPolicy
	retry      RetryPolicy
}

func NewCompleteOrderCommandHandler(uowFactory UoWFactory, retry RetryPolicy) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAssignmentPolicy(),
		retry:      retry,
	}
}

func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var completed *order.Order
	err := h.retry.run(ctx, "complete", "order", cmd.OrderID(), func() error {
		var err error
		completed, err = h.attempt(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (h CompleteOrderCommandHandler) attempt(ctx context.Context, cmd CompleteOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	containersRepo := uow.ContainerRepository()

	o, err := ordersRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	c, err := containersRepo.GetForUpdate(ctx, o.ContainerID())
	if err != nil {
		return nil, err
	}

	if err = h.policy.Complete(o, c, time.Now().UTC()); err != nil {
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
