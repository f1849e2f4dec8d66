// Package location provides position samples reported for containers and the
// bounded trail kept per container for trend display.
package location

import (
	"errors"
	"time"

	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/guard"
)

var ErrSampleIsNotConstructed = errors.New("Sample must be created via NewSample constructor")

// Sample is a single position report. Samples are ephemeral: only the latest
// per container is persisted.
type Sample struct {
	containerID kernel.ID
	point       kernel.GeoPoint
	at          time.Time
	guard       guard.ConstructorGuard
}

// NewSample validates the container id, the coordinates and the timestamp.
func NewSample(containerID kernel.ID, lat, lng float64, at time.Time) (Sample, error) {
	point, pointErr := kernel.NewGeoPoint(lat, lng)

	var atErr error
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("timestamp")
	}

	if err := errors.Join(containerID.ValidateAs("container_id"), pointErr, atErr); err != nil {
		return Sample{}, err
	}

	return Sample{
		containerID: containerID,
		point:       point,
		at:          at.UTC(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (s Sample) Validate() error {
	return s.guard.Validate(ErrSampleIsNotConstructed)
}

func (s Sample) ContainerID() kernel.ID { return s.containerID }
func (s Sample) Point() kernel.GeoPoint { return s.point }
func (s Sample) At() time.Time          { return s.at }

// IsEqual reports whether both samples carry the same container, position and timestamp.
func (s Sample) IsEqual(other Sample) bool {
	return s.containerID == other.containerID &&
		s.point.IsEqual(other.point) &&
		s.at.Equal(other.at)
}
