package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// Schedules holds six-field cron expressions (with seconds). Empty fields
// fall back to each job's default.
type Schedules struct {
	LocationFlush string
	DedupePrune   string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	locationFlushJob *LocationFlushJob
	dedupePruneJob   *DedupePruneJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	flusher PendingFlusher,
	pruner DedupePruner,
	schedules Schedules,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		locationFlushJob: NewLocationFlushJob(flusher, schedules.LocationFlush, logger),
		dedupePruneJob:   NewDedupePruneJob(pruner, schedules.DedupePrune, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.locationFlushJob.Start(); err != nil {
		return fmt.Errorf("failed to start location flush job: %w", err)
	}

	if err := jm.dedupePruneJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.locationFlushJob.Stop()
		return fmt.Errorf("failed to start dedupe prune job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dedupePruneJob.Stop()
	jm.locationFlushJob.Stop()
}
