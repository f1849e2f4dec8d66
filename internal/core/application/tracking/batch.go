package tracking

import (
	"context"
	"time"

	"assetsync/internal/core/domain/model/kernel"
)

// Report is one entry of a batch upload.
type Report struct {
	ContainerID kernel.ID
	Lat         float64
	Lng         float64
	Timestamp   time.Time
}

// BatchResult counts outcomes; Errors is keyed by the index of the failed report.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    map[int]error
}

// BatchReport applies ReportLocation to every report independently. A failed
// report never prevents the following ones.
func (t *Tracker) BatchReport(ctx context.Context, reports []Report) BatchResult {
	result := BatchResult{Errors: make(map[int]error)}
	for i, r := range reports {
		if _, err := t.ReportLocation(ctx, r.ContainerID, r.Lat, r.Lng, r.Timestamp); err != nil {
			result.Failed++
			result.Errors[i] = err
			continue
		}
		result.Succeeded++
	}
	return result
}
