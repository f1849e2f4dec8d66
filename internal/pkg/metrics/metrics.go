// Package metrics holds the service's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AssignmentOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetsync_assignment_ops_total",
			Help: "Assignment operations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	AssignmentRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetsync_assignment_retries_total",
			Help: "Assignment attempts retried after a version conflict",
		},
		[]string{"op"},
	)

	AssignmentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetsync_assignment_duration_seconds",
			Help:    "Duration of assignment operations including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	LocationSamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetsync_location_samples_total",
			Help: "Location samples by outcome (applied, coalesced, stale, invalid, failed)",
		},
		[]string{"outcome"},
	)

	FeedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetsync_feed_events_total",
			Help: "Change events dispatched by the feed router",
		},
		[]string{"kind"},
	)

	FeedDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assetsync_feed_duplicates_total",
			Help: "Row changes discarded as duplicates",
		},
	)

	FeedDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assetsync_feed_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		},
	)

	FeedSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "assetsync_feed_subscribers",
			Help: "Currently open feed subscriptions",
		},
	)
)

// Register registers all collectors with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		AssignmentOpsTotal,
		AssignmentRetriesTotal,
		AssignmentDuration,
		LocationSamplesTotal,
		FeedEventsTotal,
		FeedDuplicatesTotal,
		FeedDroppedTotal,
		FeedSubscribers,
	)
}
