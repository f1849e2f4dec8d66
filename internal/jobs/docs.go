// Package jobs provides scheduled background tasks for the assetsync service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance of the tracking and change feed state.
//
// # Available Jobs
//
// 1. LocationFlushJob - Runs every second to write location samples the throttle held back
// 2. DedupePruneJob - Runs every 30 seconds to drop expired change feed dedupe keys
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the tracker and the router
//	jobManager := jobs.NewJobManager(tracker, router, jobs.Schedules{}, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("Failed to start jobs", zap.Error(err))
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with a leading seconds field.
// A tick is skipped while the previous run of the same job is still in progress.
//
// # Error Handling
//
// - Flush job logs storage errors; failed samples stay pending for the next tick
// - Failed job starts will stop any already running jobs
package jobs
