package vehicle_test

import (
	"testing"

	"assetsync/internal/core/domain/model/vehicle"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := vehicle.NewVehicle(1, 96, "ABC-123", 2)

		require.NoError(t, err)
		require.NoError(t, v.Validate())
		assert.True(t, v.BelongsTo(96))
		assert.False(t, v.BelongsTo(97))
	})

	t.Run("invalid fields are joined", func(t *testing.T) {
		_, err := vehicle.NewVehicle(0, 96, "", -1)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
