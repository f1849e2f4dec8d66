package changefeed

import (
	"sync"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"

	"go.uber.org/atomic"
)

// Subscription is one scoped consumer of the feed. Events is closed after
// Cancel, Unsubscribe or router shutdown.
type Subscription struct {
	id     uint64
	scope  change.Scope
	events chan change.Event
	router *Router

	// orderContainer follows the current container of an order scope.
	orderContainer *atomic.Int64
	dropped        *atomic.Uint64
	closeOnce      sync.Once
}

func (s *Subscription) ID() uint64                  { return s.id }
func (s *Subscription) Scope() change.Scope         { return s.scope }
func (s *Subscription) Events() <-chan change.Event { return s.events }
func (s *Subscription) Dropped() uint64             { return s.dropped.Load() }

// Cancel detaches the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.router.Unsubscribe(s.id)
}

func (s *Subscription) matches(e change.Event) bool {
	if s.scope.Kind() == change.ScopeOrder && e.Kind == change.OrderChanged && e.OrderID() == s.scope.ID() {
		s.orderContainer.Store(e.Order.ContainerID.Int64())
	}
	return s.scope.Matches(e, kernel.ID(s.orderContainer.Load()))
}

// offer delivers e without blocking and reports whether it fit the buffer.
func (s *Subscription) offer(e change.Event) bool {
	select {
	case s.events <- e:
		return true
	default:
		s.dropped.Inc()
		return false
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.events) })
}
