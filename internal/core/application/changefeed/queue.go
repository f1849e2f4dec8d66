package changefeed

import (
	"sync"

	"assetsync/internal/core/domain/model/change"
)

// queue is an unbounded FIFO with a wake-up signal for the dispatcher.
type queue struct {
	mu     sync.Mutex
	items  []change.RowChange
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

func (q *queue) push(rc change.RowChange) {
	q.mu.Lock()
	q.items = append(q.items, rc)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []change.RowChange {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.items
	q.items = nil
	return batch
}
