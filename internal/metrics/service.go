package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RecordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_records_created_total",
			Help: "The total number of records created, by collection.",
		}, []string{"collection"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_rejections_total",
			Help: "The total number of operations rejected by a business rule, by reason.",
		}, []string{"reason"}),
		AggregationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cricket_aggregation_duration_seconds",
			Help:    "The duration of derived view computations, by kind.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
		LiveEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_live_events_published_total",
			Help: "The total number of match events published to the live channel.",
		}),
		LiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cricket_live_subscribers",
			Help: "The number of active live match subscriptions.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		LifecycleRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_lifecycle_runs_total",
			Help: "The total number of times the tournament lifecycle processor has run.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cricket_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RecordsCreated,
		s.Rejections,
		s.AggregationDuration,
		s.LiveEventsPublished,
		s.LiveSubscribers,
		s.NotificationsSent,
		s.NotificationsFailed,
		s.LifecycleRuns,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRecordsCreated(collection string) {
	s.RecordsCreated.WithLabelValues(collection).Inc()
}

func (s *Service) IncRejections(reason string) {
	s.Rejections.WithLabelValues(reason).Inc()
}

func (s *Service) ObserveAggregationDuration(kind string, duration float64) {
	s.AggregationDuration.WithLabelValues(kind).Observe(duration)
}

func (s *Service) IncLiveEventsPublished() {
	s.LiveEventsPublished.Inc()
}

func (s *Service) IncLiveSubscribers() {
	s.LiveSubscribers.Inc()
}

func (s *Service) DecLiveSubscribers() {
	s.LiveSubscribers.Dec()
}

func (s *Service) IncNotificationsSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationsFailed() {
	s.NotificationsFailed.Inc()
}

func (s *Service) IncLifecycleRuns() {
	s.LifecycleRuns.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
