package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DedupePruner forgets dedupe keys older than the retention window.
type DedupePruner interface {
	Prune() int
}

// DedupePruneJob manages the scheduled pruning of the change feed dedupe set.
type DedupePruneJob struct {
	pruner   DedupePruner
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewDedupePruneJob creates a new pruning job. An empty schedule means every 30 seconds.
func NewDedupePruneJob(pruner DedupePruner, schedule string, logger *zap.Logger) *DedupePruneJob {
	if schedule == "" {
		schedule = "*/30 * * * * *"
	}
	return &DedupePruneJob{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(zap.String("component", "dedupe_prune_job")),
	}
}

// Start begins the pruning job.
func (j *DedupePruneJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if pruned := j.pruner.Prune(); pruned > 0 {
			j.logger.Debug("Pruned dedupe keys", zap.Int("pruned", pruned))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Dedupe prune job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the pruning job.
func (j *DedupePruneJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Dedupe prune job stopped")
}
