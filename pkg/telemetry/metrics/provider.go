package metrics

import (
	"time"

	"atomic-explorer/aihub/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks per-provider attempt behaviour.
//
// Metrics:
//   - <ns>_<sub>_provider_attempts_total: attempts by provider and outcome
//   - <ns>_<sub>_provider_attempt_latency_seconds: attempt latency by provider
//   - <ns>_<sub>_registry_providers: providers in the active registry
type ProviderMetrics struct {
	attempts     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	registrySize prometheus.Gauge
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_attempts_total",
				Help:      "Total number of provider attempts by outcome",
			},
			[]string{"provider", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_attempt_latency_seconds",
				Help:      "Provider attempt latency in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider"},
		),

		registrySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registry_providers",
				Help:      "Number of providers in the active registry",
			},
		),
	}

	registry.MustRegister(
		pm.attempts,
		pm.latency,
		pm.registrySize,
	)

	return pm
}

// RecordAttempt records one attempt and its latency.
func (pm *ProviderMetrics) RecordAttempt(provider, outcome string, latency time.Duration) {
	pm.attempts.WithLabelValues(provider, outcome).Inc()
	pm.latency.WithLabelValues(provider).Observe(latency.Seconds())
}

// SetRegistrySize sets the registry size gauge.
func (pm *ProviderMetrics) SetRegistrySize(n int) {
	pm.registrySize.Set(float64(n))
}
