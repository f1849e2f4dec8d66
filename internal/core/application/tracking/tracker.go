package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/ports"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "assetsync/tracker"

type Config struct {
	// MinInterval is the minimum wall-clock gap between two persisted writes
	// for one container. Zero persists every sample.
	MinInterval   time.Duration
	TrailCapacity int
	MaxAttempts   uint64
	// UnavailableAttempts bounds attempts that failed with an UnavailableError.
	UnavailableAttempts uint64
}

func DefaultConfig() Config {
	return Config{
		MinInterval:         time.Second,
		TrailCapacity:       location.DefaultTrailCapacity,
		MaxAttempts:         4,
		UnavailableAttempts: 3,
	}
}

// Result describes what ReportLocation did with a valid sample.
type Result struct {
	Applied   bool `json:"applied"`
	Coalesced bool `json:"coalesced"`
	Stale     bool `json:"stale"`
}

type containerState struct {
	mu          sync.Mutex
	trail       *location.Trail
	lastSample  time.Time
	lastWritten time.Time
	pending     *location.Sample
}

type Tracker struct {
	uowFactory UoWFactory
	publisher  ports.LocationPublisher
	cfg        Config
	tracer     trace.Tracer
	logger     *zap.Logger
	now        func() time.Time

	mu         sync.Mutex
	containers map[kernel.ID]*containerState
}

func NewTracker(uowFactory UoWFactory, publisher ports.LocationPublisher, cfg Config, logger *zap.Logger) *Tracker {
	if cfg.TrailCapacity <= 0 {
		cfg.TrailCapacity = location.DefaultTrailCapacity
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.UnavailableAttempts == 0 {
		cfg.UnavailableAttempts = 1
	}
	return &Tracker{
		uowFactory: uowFactory,
		publisher:  publisher,
		cfg:        cfg,
		tracer:     otel.Tracer(tracerName),
		logger:     logger.With(zap.String("component", "tracker")),
		now:        time.Now,
		containers: make(map[kernel.ID]*containerState),
	}
}

// ReportLocation validates and records one sample.
//
// Errors: ValueIsOutOfRangeError / ValueIsRequiredError for malformed input
// (nothing is recorded), ObjectNotFoundError for an unknown container, and
// storage errors from the container write.
func (t *Tracker) ReportLocation(
	ctx context.Context,
	containerID kernel.ID,
	lat, lng float64,
	at time.Time,
) (Result, error) {
	ctx, span := t.tracer.Start(ctx, "tracker.report_location",
		trace.WithAttributes(attribute.Int64("container.id", containerID.Int64())))
	defer span.End()

	res, err := t.reportLocation(ctx, containerID, lat, lng, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errs.Classify(err).String())
		return res, err
	}
	span.SetAttributes(
		attribute.Bool("location.applied", res.Applied),
		attribute.Bool("location.coalesced", res.Coalesced),
		attribute.Bool("location.stale", res.Stale),
	)
	return res, nil
}

func (t *Tracker) reportLocation(
	ctx context.Context,
	containerID kernel.ID,
	lat, lng float64,
	at time.Time,
) (Result, error) {
	sample, err := location.NewSample(containerID, lat, lng, at)
	if err != nil {
		metrics.LocationSamplesTotal.WithLabelValues("invalid").Inc()
		return Result{}, err
	}

	st := t.state(containerID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.lastSample.IsZero() && !sample.At().After(st.lastSample) {
		metrics.LocationSamplesTotal.WithLabelValues("stale").Inc()
		return Result{Stale: true}, nil
	}

	if t.cfg.MinInterval > 0 && !st.lastWritten.IsZero() && t.now().Sub(st.lastWritten) < t.cfg.MinInterval {
		st.record(sample)
		st.pending = &sample
		metrics.LocationSamplesTotal.WithLabelValues("coalesced").Inc()
		return Result{Coalesced: true}, nil
	}

	if err = t.persist(ctx, sample); err != nil {
		metrics.LocationSamplesTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, errs.ErrObjectNotFound) && st.lastSample.IsZero() {
			t.forget(containerID, st)
		}
		return Result{}, err
	}

	st.record(sample)
	st.pending = nil
	st.lastWritten = t.now()
	metrics.LocationSamplesTotal.WithLabelValues("applied").Inc()
	return Result{Applied: true}, nil
}

// FlushPending writes every pending sample whose container is outside its
// throttle window and returns how many were written.
func (t *Tracker) FlushPending(ctx context.Context) (int, error) {
	t.mu.Lock()
	states := make([]*containerState, 0, len(t.containers))
	for _, st := range t.containers {
		states = append(states, st)
	}
	t.mu.Unlock()

	var (
		flushed int
		errList []error
	)
	for _, st := range states {
		ok, err := t.flush(ctx, st)
		if err != nil {
			errList = append(errList, err)
		}
		if ok {
			flushed++
		}
	}
	return flushed, errors.Join(errList...)
}

// Trail returns the retained samples for containerID, oldest first.
func (t *Tracker) Trail(containerID kernel.ID) ([]location.Sample, error) {
	if err := containerID.ValidateAs("container_id"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	st, ok := t.containers[containerID]
	t.mu.Unlock()
	if !ok {
		return []location.Sample{}, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.trail.Samples(), nil
}

func (t *Tracker) flush(ctx context.Context, st *containerState) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.pending == nil {
		return false, nil
	}
	if t.cfg.MinInterval > 0 && t.now().Sub(st.lastWritten) < t.cfg.MinInterval {
		return false, nil
	}

	sample := *st.pending
	if err := t.persist(ctx, sample); err != nil {
		return false, err
	}

	st.pending = nil
	st.lastWritten = t.now()
	metrics.LocationSamplesTotal.WithLabelValues("applied").Inc()
	return true, nil
}

func (t *Tracker) state(containerID kernel.ID) *containerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.containers[containerID]
	if !ok {
		st = &containerState{trail: location.NewTrail(t.cfg.TrailCapacity)}
		t.containers[containerID] = st
	}
	return st
}

// forget drops the entry for a container that never recorded a sample.
func (t *Tracker) forget(containerID kernel.ID, st *containerState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.containers[containerID] == st {
		delete(t.containers, containerID)
	}
}

func (st *containerState) record(sample location.Sample) {
	st.lastSample = sample.At()
	st.trail.Append(sample)
}

// persist writes the container position, then the order mirror, then
// publishes. Only the container write decides the outcome.
func (t *Tracker) persist(ctx context.Context, sample location.Sample) error {
	if err := t.retry(ctx, func() error { return t.moveContainer(ctx, sample) }); err != nil {
		return err
	}

	if err := t.retry(ctx, func() error { return t.mirrorOrder(ctx, sample) }); err != nil {
		t.logger.Warn("order position mirror failed",
			zap.Int64("container_id", sample.ContainerID().Int64()), zap.Error(err))
	}

	if t.publisher != nil {
		publish := func() error { return t.publisher.PublishLocation(ctx, sample) }
		if err := t.retry(ctx, publish); err != nil {
			t.logger.Warn("location publish failed",
				zap.Int64("container_id", sample.ContainerID().Int64()), zap.Error(err))
		}
	}
	return nil
}

func (t *Tracker) moveContainer(ctx context.Context, sample location.Sample) error {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	containers := uow.ContainerRepository()

	c, err := containers.GetForUpdate(ctx, sample.ContainerID())
	if err != nil {
		return err
	}

	if err = c.MovePosition(sample.Point(), t.now().UTC()); err != nil {
		return err
	}

	if err = containers.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (t *Tracker) mirrorOrder(ctx context.Context, sample location.Sample) error {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	active, err := orders.GetActiveByContainer(ctx, sample.ContainerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	o, err := orders.GetForUpdate(ctx, active.ID())
	if err != nil {
		return err
	}
	if !o.Status().IsActive() || o.ContainerID() != sample.ContainerID() {
		return nil
	}

	if err = o.MirrorPosition(sample.Point(), t.now().UTC()); err != nil {
		return err
	}

	if err = orders.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// retry re-runs op on version conflicts and on unavailability, each within
// its own attempt budget.
func (t *Tracker) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 50 * time.Millisecond
	b.MaxElapsedTime = 0

	var conflicts, outages uint64
	return backoff.Retry(func() error {
		err := op()
		switch {
		case err == nil:
			return nil
		case errs.IsRetryable(err):
			conflicts++
			if conflicts >= t.cfg.MaxAttempts {
				return backoff.Permanent(err)
			}
			return err
		case errs.IsTransient(err):
			outages++
			if outages >= t.cfg.UnavailableAttempts {
				return backoff.Permanent(err)
			}
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(b, ctx))
}
