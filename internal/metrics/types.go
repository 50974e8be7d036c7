package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	RecordsCreated      *prometheus.CounterVec
	Rejections          *prometheus.CounterVec
	AggregationDuration *prometheus.HistogramVec
	LiveEventsPublished prometheus.Counter
	LiveSubscribers     prometheus.Gauge
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	LifecycleRuns       prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}

// Activity counter keys.
const (
	ActivityTournamentsAdvanced = "tournaments_advanced"
	ActivityFixturesStarted     = "fixtures_started"
	ActivityFixturesAnnounced   = "fixtures_announced"
	ActivityLifecycleRuns       = "lifecycle_runs"
)
