package changefeed

import (
	"sync"
	"time"

	"assetsync/internal/core/domain/model/change"
)

// dedupe remembers recently dispatched row versions for ttl.
type dedupe struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[change.DedupeKey]time.Time
}

func newDedupe(ttl time.Duration) *dedupe {
	return &dedupe{ttl: ttl, seen: make(map[change.DedupeKey]time.Time)}
}

// observe records key and reports whether it was already seen within ttl.
func (d *dedupe) observe(key change.DedupeKey, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if at, ok := d.seen[key]; ok && now.Sub(at) < d.ttl {
		return true
	}
	d.seen[key] = now
	return false
}

func (d *dedupe) prune(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for key, at := range d.seen {
		if now.Sub(at) >= d.ttl {
			delete(d.seen, key)
			removed++
		}
	}
	return removed
}

func (d *dedupe) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
