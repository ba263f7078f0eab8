// Package metrics exports synthesis counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mstts"

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Metrics holds the synthesis collectors and the registry that serves them
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors on a private registry. Go runtime and process
// collectors are registered alongside.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synthesis_requests_total",
				Help:      "Total number of synthesis requests",
			},
			[]string{"platform", "result"}, // result: success, error
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synthesis_bytes_total",
				Help:      "Total bytes of synthesized audio",
			},
			[]string{"platform"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "synthesis_duration_seconds",
				Help:      "Duration of synthesis calls in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"platform"},
		),
	}

	m.registry.MustRegister(m.requests, m.bytes, m.duration)
	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// ObserveSynthesis records one synthesis call
func (m *Metrics) ObserveSynthesis(platform string, bytes int, ok bool, took time.Duration) {
	result := resultSuccess
	if !ok {
		result = resultError
	}
	m.requests.WithLabelValues(platform, result).Inc()
	m.bytes.WithLabelValues(platform).Add(float64(bytes))
	m.duration.WithLabelValues(platform).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
