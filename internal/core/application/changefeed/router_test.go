package changefeed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/core/ports"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type MockOrderLocator struct{ mock.Mock }

func (m *MockOrderLocator) ContainerOf(ctx context.Context, orderID kernel.ID) (kernel.ID, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(kernel.ID), args.Error(1)
}

type chanSource struct {
	ch  chan change.RowChange
	err error
}

func (s *chanSource) Changes(_ context.Context) (<-chan change.RowChange, error) {
	return s.ch, s.err
}

func startRouter(t *testing.T, r *Router, sources ...*chanSource) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	streams := make([]ports.ChangeStream, 0, len(sources))
	for _, s := range sources {
		streams = append(streams, s)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, r.Run(ctx, streams...))
	}()

	t.Cleanup(func() {
		cancel()
		for _, s := range sources {
			close(s.ch)
		}
		<-done
	})
}

func containerChange(t *testing.T, id kernel.ID, version int64) change.RowChange {
	t.Helper()
	c, err := container.RestoreContainer(container.State{
		ID: id, Name: "CNT", Status: container.Inactive, LastUpdated: t0, Version: version,
	})
	require.NoError(t, err)
	rc, err := change.ContainerRowChange(nil, c)
	require.NoError(t, err)
	return rc
}

func orderChange(t *testing.T, id, containerID kernel.ID, version int64) change.RowChange {
	t.Helper()
	o, err := order.RestoreOrder(order.State{
		ID:          id,
		CustomerID:  500,
		ContainerID: containerID,
		Status:      order.Pending,
		Price:       950,
		Pickup:      order.Stop{Point: kernel.MustGeoPoint(41.3, 69.2)},
		Drop:        order.Stop{Point: kernel.MustGeoPoint(40.1, 65.4)},
		CreatedAt:   t0,
		UpdatedAt:   t0,
		Version:     version,
	})
	require.NoError(t, err)
	rc, err := change.OrderRowChange(nil, o)
	require.NoError(t, err)
	return rc
}

func sample(t *testing.T, containerID kernel.ID, at time.Time) location.Sample {
	t.Helper()
	s, err := location.NewSample(containerID, 41.3, 69.2, at)
	require.NoError(t, err)
	return s
}

func next(t *testing.T, sub *Subscription) change.Event {
	t.Helper()
	select {
	case e, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return change.Event{}
}

func nothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case e := <-sub.Events():
		t.Fatalf("unexpected event: %+v", e)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestRouter_DeliversInSequence(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	src := &chanSource{ch: make(chan change.RowChange)}
	startRouter(t, r, src)

	sub, err := r.Subscribe(context.Background(), change.All())
	require.NoError(t, err)

	src.ch <- containerChange(t, 36, 1)
	first := next(t, sub)
	src.ch <- orderChange(t, 131, 36, 1)
	second := next(t, sub)
	require.NoError(t, r.PublishLocation(context.Background(), sample(t, 36, t0)))
	third := next(t, sub)

	assert.Equal(t, change.ContainerChanged, first.Kind)
	assert.Equal(t, change.OrderChanged, second.Kind)
	assert.Equal(t, change.LocationUpdated, third.Kind)
	assert.Less(t, first.Sequence, second.Sequence)
	assert.Less(t, second.Sequence, third.Sequence)
	assert.Equal(t, third.Sequence, r.Sequence())
}

func TestRouter_DropsDuplicatesWithinTTL(t *testing.T) {
	now := t0
	r := NewRouter(Config{SubscriberBuffer: 8, DedupeTTL: time.Minute}, nil, zap.NewNop())
	r.now = func() time.Time { return now }

	sub, err := r.Subscribe(context.Background(), change.All())
	require.NoError(t, err)

	rc := containerChange(t, 36, 2)
	r.dispatch(rc)
	r.dispatch(rc)
	r.dispatch(containerChange(t, 36, 3))

	assert.Equal(t, int64(2), next(t, sub).Container.Version)
	assert.Equal(t, int64(3), next(t, sub).Container.Version)
	nothing(t, sub)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, r.Prune())
	assert.Zero(t, r.DedupeSize())

	r.dispatch(rc)
	assert.Equal(t, int64(2), next(t, sub).Container.Version)
}

func TestRouter_LocationFromTwoPathsDeliveredOnce(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	sub, err := r.Subscribe(context.Background(), change.ByContainer(36))
	require.NoError(t, err)

	s := sample(t, 36, t0)
	rc, err := change.LocationRowChange(s)
	require.NoError(t, err)

	r.dispatch(rc)
	r.dispatch(rc)

	e := next(t, sub)
	assert.Equal(t, kernel.ID(36), e.Location.ContainerID)
	nothing(t, sub)
}

func TestRouter_ContainerScope(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	sub, err := r.Subscribe(context.Background(), change.ByContainer(36))
	require.NoError(t, err)

	r.dispatch(containerChange(t, 37, 1))
	r.dispatch(orderChange(t, 131, 36, 1))
	rc, err := change.LocationRowChange(sample(t, 37, t0))
	require.NoError(t, err)
	r.dispatch(rc)
	nothing(t, sub)

	r.dispatch(containerChange(t, 36, 1))
	assert.Equal(t, change.ContainerChanged, next(t, sub).Kind)
}

func TestRouter_OrderScopeSeededByLocator(t *testing.T) {
	ctx := context.Background()
	locator := &MockOrderLocator{}
	locator.On("ContainerOf", ctx, kernel.ID(131)).Return(kernel.ID(36), nil).Once()

	r := NewRouter(DefaultConfig(), locator, zap.NewNop())
	sub, err := r.Subscribe(ctx, change.ByOrder(131))
	require.NoError(t, err)

	rc, err := change.LocationRowChange(sample(t, 36, t0))
	require.NoError(t, err)
	r.dispatch(rc)
	assert.Equal(t, change.LocationUpdated, next(t, sub).Kind)

	r.dispatch(containerChange(t, 36, 4))
	assert.Equal(t, change.ContainerChanged, next(t, sub).Kind)

	r.dispatch(orderChange(t, 132, 36, 1))
	nothing(t, sub)

	locator.AssertExpectations(t)
}

func TestRouter_OrderScopeLearnsContainer(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	sub, err := r.Subscribe(context.Background(), change.ByOrder(131))
	require.NoError(t, err)

	r.dispatch(containerChange(t, 36, 1))
	nothing(t, sub)

	r.dispatch(orderChange(t, 131, 36, 1))
	assert.Equal(t, change.OrderChanged, next(t, sub).Kind)
	assert.Equal(t, kernel.ID(36), kernel.ID(sub.orderContainer.Load()))

	r.dispatch(containerChange(t, 36, 2))
	assert.Equal(t, change.ContainerChanged, next(t, sub).Kind)
}

func TestRouter_SubscribeUnknownOrder(t *testing.T) {
	ctx := context.Background()
	locator := &MockOrderLocator{}
	locator.On("ContainerOf", ctx, kernel.ID(404)).
		Return(kernel.ID(0), errs.NewObjectNotFoundError("order", kernel.ID(404)))

	r := NewRouter(DefaultConfig(), locator, zap.NewNop())
	_, err := r.Subscribe(ctx, change.ByOrder(404))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Zero(t, r.SubscriberCount())
}

func TestRouter_SlowSubscriberDropsWithoutStallingOthers(t *testing.T) {
	r := NewRouter(Config{SubscriberBuffer: 1}, nil, zap.NewNop())

	slow, err := r.Subscribe(context.Background(), change.All())
	require.NoError(t, err)
	fast, err := r.Subscribe(context.Background(), change.All())
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		received int
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range fast.Events() {
			received++
		}
	}()

	for v := int64(1); v <= 3; v++ {
		r.dispatch(containerChange(t, 36, v))
		time.Sleep(5 * time.Millisecond)
	}
	fast.Cancel()
	wg.Wait()

	assert.Equal(t, 3, received)
	assert.Equal(t, uint64(2), slow.Dropped())
	assert.Equal(t, int64(1), next(t, slow).Container.Version)
}

func TestRouter_CancelIsIdempotent(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	sub, err := r.Subscribe(context.Background(), change.All())
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel()
	r.Unsubscribe(sub.ID())

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Zero(t, r.SubscriberCount())

	r.dispatch(containerChange(t, 36, 1))
}

func TestRouter_RunClosesSubscriptionsOnStop(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	sub, err := r.Subscribe(context.Background(), change.All())
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)

	_, ok := <-sub.Events()
	assert.False(t, ok)

	_, err = r.Subscribe(context.Background(), change.All())
	require.ErrorIs(t, err, errs.ErrUnavailable)
}

func TestRouter_RunFailsOnUnavailableSource(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	src := &chanSource{err: errors.New("connection refused")}

	err := r.Run(context.Background(), src)
	require.ErrorIs(t, err, errs.ErrUnavailable)
}

// ctxSource closes its stream only when the router context ends.
type ctxSource struct{}

func (ctxSource) Changes(ctx context.Context) (<-chan change.RowChange, error) {
	ch := make(chan change.RowChange)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func TestRouter_RunReleasesOpenedSourcesWhenLaterSourceFails(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	failing := &chanSource{err: errors.New("redis down")}

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), ctxSource{}, failing) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, errs.ErrUnavailable)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the second source failed to open")
	}
}

func TestRouter_InvalidScope(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil, zap.NewNop())
	_, err := r.Subscribe(context.Background(), change.ByContainer(0))
	require.Error(t, err)
}
