package memory

import (
	"context"
	"sync"

	"assetsync/internal/core/domain/model/change"
)

// changeStream fans committed row changes out to every open Changes channel.
// Each listener has its own unbounded queue so a committing writer never
// waits for a consumer.
type changeStream struct {
	mu        sync.Mutex
	listeners map[*listener]struct{}
}

type listener struct {
	mu     sync.Mutex
	queue  []change.RowChange
	signal chan struct{}
}

func newChangeStream() *changeStream {
	return &changeStream{listeners: make(map[*listener]struct{})}
}

func (s *changeStream) subscribe(ctx context.Context) <-chan change.RowChange {
	l := &listener{signal: make(chan struct{}, 1)}
	out := make(chan change.RowChange)

	s.mu.Lock()
	s.listeners[l] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.listeners, l)
			s.mu.Unlock()
		}()

		for {
			for _, rc := range l.drain() {
				select {
				case out <- rc:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-l.signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *changeStream) publish(rc change.RowChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for l := range s.listeners {
		l.mu.Lock()
		l.queue = append(l.queue, rc)
		l.mu.Unlock()

		select {
		case l.signal <- struct{}{}:
		default:
		}
	}
}

func (l *listener) drain() []change.RowChange {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}
