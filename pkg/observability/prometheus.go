package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	RecallAttempts    *prometheus.HistogramVec
	Errors            *prometheus.CounterVec
}

// NewCollector creates a metrics collector with its own registry so tests
// can build several without duplicate registration.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of commands and queries executed",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Command and query duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"operation"},
		),
		RecallAttempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recall_poll_attempts",
				Help:      "Message list polls needed per recall",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"outcome"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors by type",
			},
			[]string{"type", "operation"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Operations,
		c.OperationDuration,
		c.RecallAttempts,
		c.Errors,
	)

	return c
}

// Handler returns the exposition handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest records a served HTTP request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCommandExecution implements Recorder
func (c *Collector) RecordCommandExecution(_ context.Context, name string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.Operations.WithLabelValues(name, status).Inc()
	c.OperationDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordRecallAttempts implements Recorder
func (c *Collector) RecordRecallAttempts(_ context.Context, attempts int, answered bool) {
	outcome := "answered"
	if !answered {
		outcome = "timed_out"
	}
	c.RecallAttempts.WithLabelValues(outcome).Observe(float64(attempts))
}

// RecordError implements Recorder
func (c *Collector) RecordError(_ context.Context, errorType string, operation string) {
	c.Errors.WithLabelValues(errorType, operation).Inc()
}
