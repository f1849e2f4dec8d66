package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetsync/internal/core/application/usecases/queries"
	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) ListActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockContainerReader struct{ mock.Mock }

func (m *MockContainerReader) Get(ctx context.Context, id kernel.ID) (*container.Container, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*container.Container), args.Error(1)
}

func (m *MockContainerReader) List(ctx context.Context) ([]*container.Container, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*container.Container), args.Error(1)
}

var now = time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)

func activeOrder(t *testing.T, id, containerID kernel.ID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, 11, containerID, 300,
		order.Stop{Point: kernel.MustGeoPoint(10, 10), Address: "A"},
		order.Stop{Point: kernel.MustGeoPoint(11, 11), Address: "B"},
		now)
	require.NoError(t, err)
	require.NoError(t, o.Take(96, 1, now))
	return o
}

func TestGetActiveOrdersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should project orders into snapshots", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("ListActive", ctx).Return([]*order.Order{activeOrder(t, 7, 36), activeOrder(t, 8, 37)}, nil).Once()

		handler := queries.NewGetActiveOrdersQueryHandler(reader)
		result, err := handler.Handle(ctx, queries.NewGetActiveOrdersQuery())

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, kernel.ID(7), result[0].ID)
		assert.Equal(t, "confirmed", result[0].Status)
		assert.Equal(t, kernel.ID(96), *result[1].TransporterID)
	})

	t.Run("should propagate repository error", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("ListActive", ctx).Return(nil, errors.New("db down")).Once()

		handler := queries.NewGetActiveOrdersQueryHandler(reader)
		_, err := handler.Handle(ctx, queries.NewGetActiveOrdersQuery())

		require.EqualError(t, err, "db down")
	})

	t.Run("should reject unconstructed query", func(t *testing.T) {
		reader := new(MockOrderReader)
		handler := queries.NewGetActiveOrdersQueryHandler(reader)

		_, err := handler.Handle(ctx, queries.GetActiveOrdersQuery{})

		require.ErrorIs(t, err, queries.ErrGetActiveOrdersQueryIsNotConstructed)
		reader.AssertNotCalled(t, "ListActive", mock.Anything)
	})
}

func TestGetContainersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	c, err := container.NewContainer(36, "CNT-36", nil, now)
	require.NoError(t, err)
	require.NoError(t, c.MovePosition(kernel.MustGeoPoint(41.2, 69.1), now))

	reader := new(MockContainerReader)
	reader.On("List", ctx).Return([]*container.Container{c}, nil).Once()

	handler := queries.NewGetContainersQueryHandler(reader)
	result, err := handler.Handle(ctx, queries.NewGetContainersQuery())

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "inactive", result[0].Status)
	assert.InDelta(t, 41.2, *result[0].CurrentLat, 1e-9)
	assert.Nil(t, result[0].AssignedTo)
}

func TestGetOrderQueryHandler_ContainerOf(t *testing.T) {
	ctx := t.Context()

	t.Run("should resolve container of order", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("Get", ctx, kernel.ID(5)).Return(activeOrder(t, 5, 44), nil).Once()

		handler := queries.NewGetOrderQueryHandler(reader)
		containerID, err := handler.ContainerOf(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, kernel.ID(44), containerID)
	})

	t.Run("should return not found", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("Get", ctx, kernel.ID(5)).Return(nil, errs.NewObjectNotFoundError("order", kernel.ID(5))).Once()

		handler := queries.NewGetOrderQueryHandler(reader)
		_, err := handler.ContainerOf(ctx, 5)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject invalid id", func(t *testing.T) {
		handler := queries.NewGetOrderQueryHandler(new(MockOrderReader))

		_, err := handler.ContainerOf(ctx, 0)

		assert.Equal(t, errs.KindInvalidInput, errs.Classify(err))
	})
}
