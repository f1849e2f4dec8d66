// Package memory provides an in-process AssetStore with the same transactional
// contract as the postgres adapter: row locks taken by GetForUpdate are held
// until Commit or Rollback, every write is a version compare-and-swap, and
// committed writes are announced on the store's change stream.
//
// It backs tests and single-process runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/domain/model/vehicle"
	"assetsync/internal/pkg/errs"

	"go.uber.org/zap"
)

type rowKey struct {
	table change.Table
	id    kernel.ID
}

type Store struct {
	mu         sync.Mutex
	orders     map[kernel.ID]order.State
	containers map[kernel.ID]container.State
	vehicles   map[kernel.ID]*vehicle.Vehicle
	rowLocks   map[rowKey]chan struct{}

	changes *changeStream
	logger  *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		orders:     make(map[kernel.ID]order.State),
		containers: make(map[kernel.ID]container.State),
		vehicles:   make(map[kernel.ID]*vehicle.Vehicle),
		rowLocks:   make(map[rowKey]chan struct{}),
		changes:    newChangeStream(),
		logger:     logger.With(zap.String("component", "memory_store")),
	}
}

// Changes implements ports.ChangeStream.
func (s *Store) Changes(ctx context.Context) (<-chan change.RowChange, error) {
	return s.changes.subscribe(ctx), nil
}

func (s *Store) lockRow(ctx context.Context, key rowKey) error {
	s.mu.Lock()
	ch, ok := s.rowLocks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[key] = ch
	}
	s.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlockRow(key rowKey) {
	s.mu.Lock()
	ch := s.rowLocks[key]
	s.mu.Unlock()
	<-ch
}

func (s *Store) order(id kernel.ID) (order.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.orders[id]
	return st, ok
}

func (s *Store) container(id kernel.ID) (container.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.containers[id]
	return st, ok
}

func (s *Store) orderStates() []order.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.State, 0, len(s.orders))
	for _, st := range s.orders {
		out = append(out, st)
	}
	return out
}

func (s *Store) containerStates() []container.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]container.State, 0, len(s.containers))
	for _, st := range s.containers {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) addVehicle(v *vehicle.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[v.ID()]; ok {
		return errs.NewConflictError("vehicle", v.ID(), "already exists")
	}
	s.vehicles[v.ID()] = v
	return nil
}

func (s *Store) vehicle(id kernel.ID) (*vehicle.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	return v, ok
}

// commit checks every staged write against the current versions and applies
// all of them or none. The resulting row changes are published after the
// store lock is released.
func (s *Store) commit(writes []write) error {
	s.mu.Lock()
	for _, w := range writes {
		if err := s.check(w); err != nil {
			s.mu.Unlock()
			return err
		}
	}

	changes := make([]change.RowChange, 0, len(writes))
	var buildErr error
	for _, w := range writes {
		switch w.key.table {
		case change.TableOrders:
			s.orders[w.key.id] = *w.orderAfter
		case change.TableContainers:
			s.containers[w.key.id] = *w.containerAfter
		}
		rc, err := w.rowChange()
		if err != nil {
			buildErr = err
			continue
		}
		changes = append(changes, rc)
	}
	s.mu.Unlock()

	if buildErr != nil {
		s.logger.Error("row change encoding failed", zap.Error(buildErr))
	}
	for _, rc := range changes {
		s.changes.publish(rc)
	}
	return nil
}

func (s *Store) check(w write) error {
	var (
		current int64
		exists  bool
	)
	switch w.key.table {
	case change.TableOrders:
		var st order.State
		st, exists = s.orders[w.key.id]
		current = st.Version
	case change.TableContainers:
		var st container.State
		st, exists = s.containers[w.key.id]
		current = st.Version
	}

	if w.insert {
		if exists {
			return errs.NewConflictError(string(w.key.table), w.key.id, "already exists")
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError(string(w.key.table), w.key.id)
	}
	if current != w.expected {
		return errs.NewVersionConflictError(string(w.key.table), w.key.id, w.expected)
	}
	return nil
}
