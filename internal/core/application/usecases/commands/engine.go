package commands

import (
	"context"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "assetsync/engine"

// Engine is the assignment entry point used by transports. It builds the
// commands, runs the handlers and records a span, a log line and metrics per
// operation.
type Engine struct {
	take     TakeOrderCommandHandler
	complete CompleteOrderCommandHandler
	cancel   CancelOrderCommandHandler
	advance  AdvanceStatusCommandHandler

	tracer trace.Tracer
	logger *zap.Logger
}

func NewEngine(uowFactory UoWFactory, retry RetryPolicy, logger *zap.Logger) *Engine {
	return &Engine{
		take:     NewTakeOrderCommandHandler(uowFactory, retry),
		complete: NewCompleteOrderCommandHandler(uowFactory, retry),
		cancel:   NewCancelOrderCommandHandler(uowFactory, retry),
		advance:  NewAdvanceStatusCommandHandler(orderUoWFactory{uowFactory}, retry),
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With(zap.String("component", "engine")),
	}
}

func (e *Engine) TakeOrder(ctx context.Context, orderID, operatorID, vehicleID kernel.ID) (*order.Order, error) {
	ctx, span := e.start(ctx, "take", orderID,
		attribute.Int64("operator.id", operatorID.Int64()),
		attribute.Int64("vehicle.id", vehicleID.Int64()))
	started := time.Now()

	cmd, err := NewTakeOrderCommand(orderID, operatorID, vehicleID)
	if err != nil {
		return nil, e.finish(span, "take", orderID, started, err)
	}

	o, err := e.take.Handle(ctx, cmd)
	return o, e.finish(span, "take", orderID, started, err)
}

func (e *Engine) CompleteOrder(ctx context.Context, orderID kernel.ID) (*order.Order, error) {
	ctx, span := e.start(ctx, "complete", orderID)
	started := time.Now()

	cmd, err := NewCompleteOrderCommand(orderID)
	if err != nil {
		return nil, e.finish(span, "complete", orderID, started, err)
	}

	o, err := e.complete.Handle(ctx, cmd)
	return o, e.finish(span, "complete", orderID, started, err)
}

func (e *Engine) CancelOrder(ctx context.Context, orderID kernel.ID) (*order.Order, error) {
	ctx, span := e.start(ctx, "cancel", orderID)
	started := time.Now()

	cmd, err := NewCancelOrderCommand(orderID)
	if err != nil {
		return nil, e.finish(span, "cancel", orderID, started, err)
	}

	o, err := e.cancel.Handle(ctx, cmd)
	return o, e.finish(span, "cancel", orderID, started, err)
}

func (e *Engine) AdvanceStatus(ctx context.Context, orderID kernel.ID, status order.Status) (*order.Order, error) {
	ctx, span := e.start(ctx, "advance", orderID, attribute.String("order.target_status", status.String()))
	started := time.Now()

	cmd, err := NewAdvanceStatusCommand(orderID, status)
	if err != nil {
		return nil, e.finish(span, "advance", orderID, started, err)
	}

	o, err := e.advance.Handle(ctx, cmd)
	return o, e.finish(span, "advance", orderID, started, err)
}

func (e *Engine) start(
	ctx context.Context,
	op string,
	orderID kernel.ID,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.Int64("order.id", orderID.Int64()))
	return e.tracer.Start(ctx, "engine."+op, trace.WithAttributes(attrs...))
}

func (e *Engine) finish(span trace.Span, op string, orderID kernel.ID, started time.Time, err error) error {
	defer span.End()
	metrics.AssignmentDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())

	if err == nil {
		metrics.AssignmentOpsTotal.WithLabelValues(op, "ok").Inc()
		e.logger.Info("assignment applied", zap.String("op", op), zap.Int64("order_id", orderID.Int64()))
		return nil
	}

	kind := errs.Classify(err)
	metrics.AssignmentOpsTotal.WithLabelValues(op, kind.String()).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, kind.String())

	fields := []zap.Field{zap.String("op", op), zap.Int64("order_id", orderID.Int64()), zap.Error(err)}
	if kind == errs.KindInternal || kind == errs.KindUnavailable {
		e.logger.Error("assignment failed", fields...)
	} else {
		e.logger.Info("assignment rejected", append(fields, zap.Stringer("kind", kind))...)
	}
	return err
}

type orderUoWFactory struct {
	UoWFactory
}

func (f orderUoWFactory) Create() OrderUoW {
	return f.UoWFactory.Create()
}
