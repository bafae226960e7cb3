package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is a no-op.
type Metrics struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	responses         prometheus.Counter
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"route", "method", "code"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_created_total",
			Help: "Submissions created by type.",
		}, []string{"type"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submission_status_changes_total",
			Help: "Submission status changes by target status.",
		}, []string{"status"}),
		responses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admin_responses_created_total",
			Help: "Staff responses added to submissions.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.errors, m.submissions, m.statusTransitions, m.responses,
	)
	return m
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts a rendered error.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// SubmissionCreated counts a new submission.
func (m *Metrics) SubmissionCreated(submissionType string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(submissionType).Inc()
}

// StatusChanged counts a status change.
func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

// ResponseAdded counts a new staff response.
func (m *Metrics) ResponseAdded() {
	if m == nil {
		return
	}
	m.responses.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
