package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PendingFlusher writes location samples held back by the throttle.
type PendingFlusher interface {
	FlushPending(ctx context.Context) (int, error)
}

// LocationFlushJob manages the scheduled flush of coalesced location samples.
// Runs every second so a throttled container never lags by more than the
// throttle window plus one tick.
type LocationFlushJob struct {
	flusher  PendingFlusher
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewLocationFlushJob creates a new job for flushing pending samples.
// An empty schedule means every second.
func NewLocationFlushJob(flusher PendingFlusher, schedule string, logger *zap.Logger) *LocationFlushJob {
	if schedule == "" {
		schedule = "* * * * * *"
	}
	return &LocationFlushJob{
		flusher:  flusher,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(zap.String("component", "location_flush_job")),
	}
}

// Start begins the location flush job.
func (j *LocationFlushJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		flushed, err := j.flusher.FlushPending(ctx)
		if err != nil {
			j.logger.Error("Location flush job failed", zap.Int("flushed", flushed), zap.Error(err))
			return
		}
		if flushed > 0 {
			j.logger.Debug("Flushed pending locations", zap.Int("flushed", flushed))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Location flush job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the location flush job and waits for a running flush.
func (j *LocationFlushJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Location flush job stopped")
}
