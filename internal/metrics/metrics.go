// Package metrics exposes resolution metrics for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the resolution collectors on a private registry
type Recorder struct {
	registry    *prometheus.Registry
	resolutions prometheus.Counter
	errors      *prometheus.CounterVec
	duration    prometheus.Histogram
	parts       prometheus.Histogram
}

// NewRecorder creates a Recorder with its collectors registered
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		resolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bikeconfig",
			Name:      "resolutions_total",
			Help:      "Number of bike configuration resolutions.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bikeconfig",
			Name:      "resolution_errors_total",
			Help:      "Resolution errors by kind and category.",
		}, []string{"kind", "category"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bikeconfig",
			Name:      "resolution_duration_seconds",
			Help:      "Wall time of one resolution.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		parts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bikeconfig",
			Name:      "resolved_parts",
			Help:      "Parts resolved per resolution.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
	reg.MustRegister(r.resolutions, r.errors, r.duration, r.parts)
	return r
}

// ObserveResolution records one finished resolution. Safe on a nil Recorder.
func (r *Recorder) ObserveResolution(elapsed time.Duration, parts int) {
	if r == nil {
		return
	}
	r.resolutions.Inc()
	r.duration.Observe(elapsed.Seconds())
	r.parts.Observe(float64(parts))
}

// ObserveError counts one resolution error. Safe on a nil Recorder.
func (r *Recorder) ObserveError(kind, category string) {
	if r == nil {
		return
	}
	r.errors.WithLabelValues(kind, category).Inc()
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
