package container_test

import (
	"testing"
	"time"

	"assetsync/internal/core/domain/model/container"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := container.NewContainer(36, "Reefer 36", nil, testNow)
	require.NoError(t, err)
	return c
}

func TestNewContainer(t *testing.T) {
	t.Run("should create inactive unassigned container", func(t *testing.T) {
		c := newContainer(t)

		require.NoError(t, c.Validate())
		assert.Equal(t, container.Inactive, c.Status())
		assert.False(t, c.IsAssigned())
		assert.Nil(t, c.VehicleID())
	})

	t.Run("should reject missing name", func(t *testing.T) {
		_, err := container.NewContainer(36, "", nil, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreContainer_PartialAssignment(t *testing.T) {
	tests := []struct {
		name       string
		assignedTo *kernel.ID
		vehicleID  *kernel.ID
		wantErr    bool
	}{
		{name: "both null", wantErr: false},
		{name: "both set", assignedTo: kernel.ID(96).Ptr(), vehicleID: kernel.ID(1).Ptr()},
		{name: "operator only", assignedTo: kernel.ID(96).Ptr(), wantErr: true},
		{name: "vehicle only", vehicleID: kernel.ID(1).Ptr(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := container.RestoreContainer(container.State{
				ID:         36,
				Name:       "Reefer 36",
				Status:     container.Active,
				AssignedTo: tt.assignedTo,
				VehicleID:  tt.vehicleID,
			})

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestContainer_AssignRelease(t *testing.T) {
	t.Run("assign sets both columns and activates", func(t *testing.T) {
		c := newContainer(t)

		require.NoError(t, c.Assign(96, 1, testNow))

		assert.True(t, c.IsAssignedTo(96, 1))
		assert.Equal(t, container.Active, c.Status())
	})

	t.Run("assign twice is conflict", func(t *testing.T) {
		c := newContainer(t)
		require.NoError(t, c.Assign(96, 1, testNow))

		err := c.Assign(97, 2, testNow)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, c.IsAssignedTo(96, 1))
	})

	t.Run("release after completion records order", func(t *testing.T) {
		c := newContainer(t)
		require.NoError(t, c.Assign(96, 1, testNow))

		require.NoError(t, c.Release(131, true, testNow))

		assert.Nil(t, c.AssignedTo())
		assert.Nil(t, c.VehicleID())
		assert.Equal(t, container.Inactive, c.Status())
		require.NotNil(t, c.CompleteOrder())
		assert.Equal(t, kernel.ID(131), *c.CompleteOrder())
	})

	t.Run("release on cancel keeps previous complete order", func(t *testing.T) {
		c := newContainer(t)
		require.NoError(t, c.Assign(96, 1, testNow))
		require.NoError(t, c.Release(7, true, testNow))
		require.NoError(t, c.Assign(50, 2, testNow))

		require.NoError(t, c.Release(8, false, testNow))

		assert.Equal(t, kernel.ID(7), *c.CompleteOrder())
	})

	t.Run("release unassigned is invalid state", func(t *testing.T) {
		c := newContainer(t)

		require.ErrorIs(t, c.Release(131, true, testNow), errs.ErrInvalidState)
	})

	t.Run("IsAssignedTo checks vehicle too", func(t *testing.T) {
		c := newContainer(t)
		require.NoError(t, c.Assign(96, 1, testNow))

		assert.False(t, c.IsAssignedTo(96, 2))
		assert.False(t, c.IsAssignedTo(95, 1))
	})
}

func TestContainer_MovePosition(t *testing.T) {
	c := newContainer(t)
	later := testNow.Add(time.Minute)

	require.NoError(t, c.MovePosition(kernel.MustGeoPoint(6.2, -75.5), later))

	require.NotNil(t, c.Position())
	assert.InDelta(t, 6.2, c.Position().Lat(), 1e-9)
	assert.Equal(t, later, c.LastUpdated())
	require.Error(t, c.MovePosition(kernel.GeoPoint{}, later))
}
