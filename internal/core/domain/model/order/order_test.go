package order_test

import (
	"testing"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/order"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(131, 8, 36, 250.5,
		order.Stop{Point: kernel.MustGeoPoint(6.25, -75.56), Address: "Cra 43A #1-50"},
		order.Stop{Point: kernel.MustGeoPoint(4.71, -74.07), Address: "Cl 26 #59-51"},
		testNow,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order without assignment", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Nil(t, o.VehicleID())
		assert.Nil(t, o.TransporterID())
		assert.Equal(t, int64(0), o.Version())
	})

	t.Run("should reject missing ids and stops", func(t *testing.T) {
		_, err := order.NewOrder(0, 0, 36, -1, order.Stop{}, order.Stop{}, testNow)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "order_id")
		assert.Contains(t, err.Error(), "customer_id")
		assert.Contains(t, err.Error(), "pickup")
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o *order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestRestoreOrder_AssignmentInvariant(t *testing.T) {
	base := newPendingOrder(t).State()

	t.Run("active without assignment is rejected", func(t *testing.T) {
		state := base
		state.Status = order.Confirmed

		_, err := order.RestoreOrder(state)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("partial assignment is rejected", func(t *testing.T) {
		state := base
		state.Status = order.Confirmed
		state.TransporterID = kernel.ID(96).Ptr()

		_, err := order.RestoreOrder(state)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("completed with assignment is rejected", func(t *testing.T) {
		state := base
		state.Status = order.Completed
		state.TransporterID = kernel.ID(96).Ptr()
		state.VehicleID = kernel.ID(1).Ptr()

		_, err := order.RestoreOrder(state)
		require.Error(t, err)
	})
}

func TestOrder_Take(t *testing.T) {
	t.Run("should confirm and record assignment", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Take(96, 1, testNow))

		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, kernel.ID(96), *o.TransporterID())
		assert.Equal(t, kernel.ID(1), *o.VehicleID())
		require.NotNil(t, o.AssignedAt())
		assert.Equal(t, testNow, *o.AssignedAt())
	})

	t.Run("taking an active order is a conflict", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Take(96, 1, testNow))

		err := o.Take(97, 2, testNow)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, kernel.ID(96), *o.TransporterID())
	})

	t.Run("taking a terminal order is invalid state", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Cancel(testNow))

		require.ErrorIs(t, o.Take(96, 1, testNow), errs.ErrInvalidState)
	})

	t.Run("missing operator is invalid input", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Take(0, 1, testNow)

		assert.Equal(t, errs.KindInvalidInput, errs.Classify(err))
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_Advance(t *testing.T) {
	t.Run("should stamp pickup time when shipped", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Take(96, 1, testNow))
		require.NoError(t, o.Advance(order.Processing, testNow))
		assert.Nil(t, o.PickupTime())

		later := testNow.Add(time.Hour)
		require.NoError(t, o.Advance(order.Shipped, later))
		require.NotNil(t, o.PickupTime())
		assert.Equal(t, later, *o.PickupTime())

		require.NoError(t, o.Advance(order.Delivered, later.Add(time.Hour)))
		assert.Equal(t, later, *o.PickupTime())
	})

	t.Run("should reject going back", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Take(96, 1, testNow))
		require.NoError(t, o.Advance(order.Shipped, testNow))

		require.ErrorIs(t, o.Advance(order.Processing, testNow), errs.ErrInvalidState)
	})

	t.Run("should reject advancing pending", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.Advance(order.Processing, testNow), errs.ErrInvalidState)
	})
}

func TestOrder_CompleteAndCancel(t *testing.T) {
	t.Run("complete clears assignment and stamps delivery", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Take(96, 1, testNow))

		require.NoError(t, o.Complete(testNow))

		assert.Equal(t, order.Completed, o.Status())
		assert.Nil(t, o.TransporterID())
		assert.Nil(t, o.VehicleID())
		require.NotNil(t, o.DeliveryTime())
	})

	t.Run("complete pending is invalid state", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.Complete(testNow), errs.ErrInvalidState)
	})

	t.Run("cancel active clears assignment without delivery time", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Take(96, 1, testNow))

		require.NoError(t, o.Cancel(testNow))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.TransporterID())
		assert.Nil(t, o.DeliveryTime())
	})

	t.Run("cancel twice is invalid state", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Cancel(testNow))

		require.ErrorIs(t, o.Cancel(testNow), errs.ErrInvalidState)
	})
}

func TestOrder_MarkPersisted(t *testing.T) {
	o := newPendingOrder(t)

	o.MarkPersisted()
	o.MarkPersisted()

	assert.Equal(t, int64(2), o.Version())
}
