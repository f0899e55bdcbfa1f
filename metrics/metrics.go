package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phases reported by the session_phase gauge
var Phases = []string{"idle", "pending", "success", "failed"}

// Collector provides application metrics collection
type Collector struct {
	// Upstream API metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Session metrics
	SubmissionsTotal    prometheus.Counter
	StaleResponsesTotal prometheus.Counter
	SessionPhase        *prometheus.GaugeVec
	SelectedDays        prometheus.Histogram

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a new metrics collector registered with reg
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_fetches_total",
				Help:      "Total number of OpenWeatherMap requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_fetch_duration_seconds",
				Help:      "OpenWeatherMap request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),

		SubmissionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_submissions_total",
				Help:      "Total number of city searches submitted",
			},
		),

		StaleResponsesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_stale_responses_total",
				Help:      "Responses discarded because a newer search superseded them",
			},
		),

		SessionPhase: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "session_phase",
				Help:      "1 for the current query phase, 0 otherwise",
			},
			[]string{"phase"},
		),

		SelectedDays: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forecast_selected_days",
				Help:      "Number of daily entries selected per successful forecast",
				Buckets:   []float64{0, 1, 2, 3, 4, 5},
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0},
			},
			[]string{"route"},
		),
	}
}

// RecordFetch records an upstream request
func (c *Collector) RecordFetch(endpoint, outcome string, duration time.Duration) {
	c.FetchesTotal.WithLabelValues(endpoint, outcome).Inc()
	c.FetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSubmission records a new search
func (c *Collector) RecordSubmission() {
	c.SubmissionsTotal.Inc()
}

// RecordStaleResponse records a response dropped by the request id guard
func (c *Collector) RecordStaleResponse() {
	c.StaleResponsesTotal.Inc()
}

// SetPhase marks phase as the current session phase
func (c *Collector) SetPhase(phase string) {
	for _, p := range Phases {
		v := 0.0
		if p == phase {
			v = 1
		}
		c.SessionPhase.WithLabelValues(p).Set(v)
	}
}

// RecordSelection records how many days a forecast produced
func (c *Collector) RecordSelection(days int) {
	c.SelectedDays.Observe(float64(days))
}

// RecordHTTPRequest records an HTTP request
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
