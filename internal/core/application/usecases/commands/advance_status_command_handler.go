package commands

import (
	"context"
	"time"

	"assetsync/internal/core/domain/model/order"
)

// AdvanceStatusCommandHandler applies an intermediate transition. It touches
// only the order row.
type AdvanceStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	retry      RetryPolicy
}

func NewAdvanceStatusCommandHandler(uowFactory OrderUoWFactory, retry RetryPolicy) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{uowFactory: uowFactory, retry: retry}
}

func (h AdvanceStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var advanced *order.Order
	err := h.retry.run(ctx, "advance", "order", cmd.OrderID(), func() error {
		var err error
		advanced, err = h.attempt(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return advanced, nil
}

func (h AdvanceStatusCommandHandler) attempt(ctx context.Context, cmd AdvanceStatusCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Advance(cmd.Status(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
