package metrics

import (
	"time"

	"atomic-explorer/aihub/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks logical gateway requests.
//
// Metrics:
//   - <ns>_<sub>_requests_total: requests by operation and result
//   - <ns>_<sub>_request_duration_seconds: request duration by operation
//   - <ns>_<sub>_request_attempts: attempts needed per request
//   - <ns>_<sub>_repair_failures_total: unparseable structured payloads
//   - <ns>_<sub>_deduplicated_total: requests joined to an in-flight twin
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	attempts        *prometheus.HistogramVec
	repairFailures  *prometheus.CounterVec
	deduplicated    *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of gateway requests by result",
			},
			[]string{"operation", "result"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of gateway requests including failover, in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"operation"},
		),

		attempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_attempts",
				Help:      "Number of provider attempts per gateway request",
				Buckets:   prometheus.LinearBuckets(1, 1, 12),
			},
			[]string{"operation"},
		),

		repairFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "repair_failures_total",
				Help:      "Structured payloads replaced by the fallback record",
			},
			[]string{"operation"},
		),

		deduplicated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "deduplicated_total",
				Help:      "Requests served by an identical in-flight request",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.attempts,
		rm.repairFailures,
		rm.deduplicated,
	)

	return rm
}

// RecordRequest records one finished request.
func (rm *RequestMetrics) RecordRequest(operation, result string, attempts int, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(operation, result).Inc()
	rm.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if attempts > 0 {
		rm.attempts.WithLabelValues(operation).Observe(float64(attempts))
	}
}

// RecordRepairFailure increments the repair failure counter.
func (rm *RequestMetrics) RecordRepairFailure(operation string) {
	rm.repairFailures.WithLabelValues(operation).Inc()
}

// RecordDeduplicated increments the deduplicated request counter.
func (rm *RequestMetrics) RecordDeduplicated(operation string) {
	rm.deduplicated.WithLabelValues(operation).Inc()
}
