// Package metrics exposes Prometheus instruments for the analytics API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service records into. Each instance owns
// its registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	TotalReqs      *prometheus.CounterVec
	ReqDuration    *prometheus.HistogramVec
	ReqsInProgress prometheus.Gauge

	Computations        *prometheus.CounterVec
	ComputationDuration *prometheus.HistogramVec
	Anomalies           *prometheus.CounterVec
	ArchiveFailures     prometheus.Counter
	EventFailures       prometheus.Counter
	BlobPuts            *prometheus.CounterVec
}

// New creates and registers all collectors under namespace
func New(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.TotalReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	m.ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.ReqsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "Number of requests currently being served",
		},
	)
	m.Computations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Analytics computations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	m.ComputationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Time spent inside the analytics engine",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"kind"},
	)
	m.Anomalies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_detected_total",
			Help:      "Total number of detected anomalies",
		},
		[]string{"severity"},
	)
	m.ArchiveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_failures_total",
			Help:      "Prediction records that could not be archived",
		},
	)
	m.EventFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Completion events that could not be published",
		},
	)
	m.BlobPuts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_puts_total",
			Help:      "Blob writes by backend that accepted them",
		},
		[]string{"backend"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TotalReqs,
		m.ReqDuration,
		m.ReqsInProgress,
		m.Computations,
		m.ComputationDuration,
		m.Anomalies,
		m.ArchiveFailures,
		m.EventFailures,
		m.BlobPuts,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveComputation records one engine call
func (m *Metrics) ObserveComputation(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Computations.WithLabelValues(kind, outcome).Inc()
	m.ComputationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// AddAnomaly counts one detected anomaly
func (m *Metrics) AddAnomaly(severity string) {
	if m == nil {
		return
	}
	m.Anomalies.WithLabelValues(severity).Inc()
}

// IncArchiveFailure counts a failed archive write
func (m *Metrics) IncArchiveFailure() {
	if m == nil {
		return
	}
	m.ArchiveFailures.Inc()
}

// IncEventFailure counts a failed event publish
func (m *Metrics) IncEventFailure() {
	if m == nil {
		return
	}
	m.EventFailures.Inc()
}

// IncBlobPut counts a blob accepted by backend
func (m *Metrics) IncBlobPut(backend string) {
	if m == nil {
		return
	}
	m.BlobPuts.WithLabelValues(backend).Inc()
}

// FiberMiddleware records request count, latency and in-flight requests.
// The route template is used as label to keep cardinality bounded.
func (m *Metrics) FiberMiddleware(skipPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == skipPath {
			return c.Next()
		}

		m.ReqsInProgress.Inc()
		defer m.ReqsInProgress.Dec()

		start := time.Now()
		err := c.Next()

		// Render the error here so the recorded status is the one sent
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		route := c.Route().Path
		m.ReqDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		m.TotalReqs.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return nil
	}
}
