// Package metrics exposes Prometheus collectors for the editor server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry and implements port.GatewayObserver and port.SessionObserver.
type Recorder struct {
	registry *prometheus.Registry

	gatewayCalls    *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	previewReleases prometheus.Counter
	activeSessions  prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "idreview",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Remote gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "idreview",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Remote gateway call latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"operation"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "idreview",
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session state transitions by event.",
		}, []string{"event"}),
		previewReleases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idreview",
			Subsystem: "session",
			Name:      "preview_releases_total",
			Help:      "Local preview handles released.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "idreview",
			Subsystem: "session",
			Name:      "active",
			Help:      "Open editor sessions.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "idreview",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Editor HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "idreview",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Editor HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	r.registry.MustRegister(
		r.gatewayCalls,
		r.gatewayDuration,
		r.transitions,
		r.previewReleases,
		r.activeSessions,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveGatewayCall(operation, outcome string, elapsed time.Duration) {
	r.gatewayCalls.WithLabelValues(operation, outcome).Inc()
	r.gatewayDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveTransition(event string) {
	r.transitions.WithLabelValues(event).Inc()
}

func (r *Recorder) ObservePreviewReleased() {
	r.previewReleases.Inc()
}

// SessionOpened increments the active session gauge.
func (r *Recorder) SessionOpened() {
	r.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (r *Recorder) SessionClosed() {
	r.activeSessions.Dec()
}

// ObserveHTTP records a finished editor request. path should be the route template.
func (r *Recorder) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
