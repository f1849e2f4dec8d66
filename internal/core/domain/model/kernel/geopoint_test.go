package kernel_test

import (
	"math"
	"testing"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
		contains string
	}{
		{name: "valid", lat: 6.2442, lng: -75.5812},
		{name: "min bounds", lat: kernel.MinLatitude, lng: kernel.MinLongitude},
		{name: "max bounds", lat: kernel.MaxLatitude, lng: kernel.MaxLongitude},
		{name: "lat too large", lat: 91, lng: 0, wantErr: true, contains: "is lat"},
		{name: "lat too small", lat: -90.0001, lng: 0, wantErr: true, contains: "is lat"},
		{name: "lng too large", lat: 0, lng: 180.5, wantErr: true, contains: "is lng"},
		{name: "lat is NaN", lat: math.NaN(), lng: 0, wantErr: true, contains: "is lat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Equal(t, errs.KindInvalidInput, errs.Classify(err))
				assert.Contains(t, err.Error(), tt.contains)
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.InDelta(t, tt.lat, p.Lat(), 1e-9)
			assert.InDelta(t, tt.lng, p.Lng(), 1e-9)
		})
	}

	t.Run("reports both violations", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is lat")
		assert.Contains(t, err.Error(), "is lng")
	})
}

func TestGeoPoint_ZeroValue(t *testing.T) {
	var p kernel.GeoPoint

	require.ErrorIs(t, p.Validate(), kernel.ErrGeoPointIsNotConstructed)
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a := kernel.MustGeoPoint(10, 20)

	assert.True(t, a.IsEqual(kernel.MustGeoPoint(10, 20)))
	assert.False(t, a.IsEqual(kernel.MustGeoPoint(10, 20.0001)))
}
