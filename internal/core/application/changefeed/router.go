package changefeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/ports"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/metrics"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var ErrRouterClosed = errors.New("change feed router is closed")

type Config struct {
	// SubscriberBuffer is the per-subscription event buffer.
	SubscriberBuffer int
	// DedupeTTL is how long a (table, row id, version) key suppresses repeats.
	DedupeTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		SubscriberBuffer: 256,
		DedupeTTL:        5 * time.Minute,
	}
}

type Router struct {
	cfg     Config
	locator ports.OrderLocator
	logger  *zap.Logger
	now     func() time.Time

	ingest  *queue
	dedupe  *dedupe
	seq     *atomic.Uint64
	nextSub *atomic.Uint64
	running *atomic.Bool
	closed  *atomic.Bool

	mu   sync.RWMutex
	subs map[uint64]*Subscription
}

// NewRouter creates a router. locator may be nil, in which case order scopes
// learn their container from the first OrderChanged event.
func NewRouter(cfg Config, locator ports.OrderLocator, logger *zap.Logger) *Router {
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = DefaultConfig().SubscriberBuffer
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = DefaultConfig().DedupeTTL
	}
	return &Router{
		cfg:     cfg,
		locator: locator,
		logger:  logger.With(zap.String("component", "changefeed")),
		now:     time.Now,
		ingest:  newQueue(),
		dedupe:  newDedupe(cfg.DedupeTTL),
		seq:     atomic.NewUint64(0),
		nextSub: atomic.NewUint64(0),
		running: atomic.NewBool(false),
		closed:  atomic.NewBool(false),
		subs:    make(map[uint64]*Subscription),
	}
}

// Run consumes sources and dispatches until ctx is done, then closes every
// subscription. A source that cannot be opened aborts Run with an
// UnavailableError.
func (r *Router) Run(ctx context.Context, sources ...ports.ChangeStream) error {
	if !r.running.CAS(false, true) {
		return errors.New("change feed router is already running")
	}
	defer r.shutdown()

	var wg sync.WaitGroup
	defer wg.Wait()

	// cancel must run before wg.Wait.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, src := range sources {
		changes, err := src.Changes(ctx)
		if err != nil {
			return errs.NewUnavailableError("change stream", err)
		}

		wg.Add(1)
		go func(idx int, changes <-chan change.RowChange) {
			defer wg.Done()
			for rc := range changes {
				r.Ingest(rc)
			}
			if ctx.Err() == nil {
				r.logger.Warn("change stream closed", zap.Int("source", idx))
			}
		}(i, changes)
	}

	for {
		for _, rc := range r.ingest.drain() {
			r.dispatch(rc)
		}

		select {
		case <-r.ingest.signal:
		case <-ctx.Done():
			return nil
		}
	}
}

// Ingest enqueues a raw row change. It never blocks.
func (r *Router) Ingest(rc change.RowChange) {
	if r.closed.Load() {
		return
	}
	r.ingest.push(rc)
}

// PublishLocation implements ports.LocationPublisher.
func (r *Router) PublishLocation(_ context.Context, sample location.Sample) error {
	rc, err := change.LocationRowChange(sample)
	if err != nil {
		return err
	}
	r.Ingest(rc)
	return nil
}

// Subscribe opens a subscription for scope. Order scopes are seeded with the
// order's current container through the OrderLocator.
func (r *Router) Subscribe(ctx context.Context, scope change.Scope) (*Subscription, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if r.closed.Load() {
		return nil, errs.NewUnavailableError("change feed", ErrRouterClosed)
	}

	sub := &Subscription{
		id:             r.nextSub.Inc(),
		scope:          scope,
		events:         make(chan change.Event, r.cfg.SubscriberBuffer),
		router:         r,
		orderContainer: atomic.NewInt64(0),
		dropped:        atomic.NewUint64(0),
	}

	if scope.Kind() == change.ScopeOrder && r.locator != nil {
		containerID, err := r.locator.ContainerOf(ctx, scope.ID())
		if err != nil {
			return nil, err
		}
		sub.orderContainer.Store(containerID.Int64())
	}

	r.mu.Lock()
	if r.closed.Load() {
		r.mu.Unlock()
		return nil, errs.NewUnavailableError("change feed", ErrRouterClosed)
	}
	r.subs[sub.id] = sub
	r.mu.Unlock()

	metrics.FeedSubscribers.Inc()
	r.logger.Debug("subscribed", zap.Uint64("subscription_id", sub.id), zap.Stringer("scope", scope))
	return sub, nil
}

// Unsubscribe removes and closes the subscription. Unknown ids are ignored.
func (r *Router) Unsubscribe(id uint64) {
	r.mu.Lock()
	sub, ok := r.subs[id]
	if ok {
		delete(r.subs, id)
		sub.close()
	}
	r.mu.Unlock()

	if ok {
		metrics.FeedSubscribers.Dec()
		r.logger.Debug("unsubscribed", zap.Uint64("subscription_id", id))
	}
}

// Prune forgets dedupe keys older than the TTL and returns how many were removed.
func (r *Router) Prune() int {
	return r.dedupe.prune(r.now())
}

// Sequence returns the sequence number of the last dispatched event.
func (r *Router) Sequence() uint64 {
	return r.seq.Load()
}

// DedupeSize returns the number of remembered row versions.
func (r *Router) DedupeSize() int {
	return r.dedupe.len()
}

func (r *Router) SubscriberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *Router) dispatch(rc change.RowChange) {
	now := r.now()
	if r.dedupe.observe(rc.DedupeKey(), now) {
		metrics.FeedDuplicatesTotal.Inc()
		return
	}

	e, err := change.Decode(rc)
	if err != nil {
		r.logger.Warn("undecodable row change",
			zap.String("table", string(rc.Table)), zap.Int64("row_id", rc.RowID.Int64()), zap.Error(err))
		return
	}
	e.Sequence = r.seq.Inc()
	e.OccurredAt = now.UTC()
	metrics.FeedEventsTotal.WithLabelValues(string(e.Kind)).Inc()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs {
		if !sub.matches(e) {
			continue
		}
		if !sub.offer(e) {
			metrics.FeedDroppedTotal.Inc()
			r.logger.Warn("subscriber buffer full, event dropped",
				zap.Uint64("subscription_id", sub.id),
				zap.Uint64("sequence", e.Sequence),
				zap.String("kind", string(e.Kind)))
		}
	}
}

func (r *Router) shutdown() {
	r.closed.Store(true)

	r.mu.Lock()
	subs := r.subs
	r.subs = make(map[uint64]*Subscription)
	for _, sub := range subs {
		sub.close()
	}
	r.mu.Unlock()

	metrics.FeedSubscribers.Sub(float64(len(subs)))
	r.logger.Info("change feed stopped", zap.Int("closed_subscriptions", len(subs)))
}
