package commands

import (
	"context"
	"time"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/domain/services"
)

// CancelOrderCommandHandler cancels an order. A pending order is cancelled
// without touching its container; an active order releases the container
// under the same guard as CompleteOrder, without setting complete_order.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AssignmentPolicy
	retry      RetryPolicy
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, retry RetryPolicy) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAssignmentPolicy(),
		retry:      retry,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var cancelled *order.Order
	err := h.retry.run(ctx, "cancel", "order", cmd.OrderID(), func() error {
		var err error
		cancelled, err = h.attempt(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (h CancelOrderCommandHandler) attempt(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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

	var c *container.Container
	if o.Status().IsActive() {
		c, err = containersRepo.GetForUpdate(ctx, o.ContainerID())
		if err != nil {
			return nil, err
		}
	}

	if err = h.policy.Cancel(o, c, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if c != nil {
		if err = containersRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
