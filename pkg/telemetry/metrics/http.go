package metrics

import (
	"time"

	"atomic-explorer/aihub/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks requests served by the HTTP API.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP API requests",
			},
			[]string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP API request duration in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"route", "method"},
		),
	}

	registry.MustRegister(hm.requests, hm.duration)

	return hm
}

// RecordRequest records one HTTP request.
func (hm *HTTPMetrics) RecordRequest(route, method, status string, duration time.Duration) {
	hm.requests.WithLabelValues(route, method, status).Inc()
	hm.duration.WithLabelValues(route, method).Observe(duration.Seconds())
}
