package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRecordsCreated(collection string)
	IncRejections(reason string)
	ObserveAggregationDuration(kind string, duration float64)
	IncLiveEventsPublished()
	IncLiveSubscribers()
	DecLiveSubscribers()
	IncNotificationsSent()
	IncNotificationsFailed()
	IncLifecycleRuns()
	SetStartupTime(duration float64)
}

// ActivityStore keeps durable counters that survive restarts, such as the
// number of fixtures announced. Prometheus series reset with the process.
type ActivityStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
