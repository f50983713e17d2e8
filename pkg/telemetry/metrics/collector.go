package metrics

import (
	"strconv"
	"sync"
	"time"

	"atomic-explorer/aihub/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// maxProviderLabels bounds the provider label values across config reloads.
const maxProviderLabels = 256

// otherProvider replaces provider labels beyond maxProviderLabels.
const otherProvider = "other"

// Collector owns every Prometheus metric exported by the AI hub.
// A nil *Collector is valid and records nothing, so components can be built
// without metrics in tests and one-shot CLI commands.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	providerMetrics *ProviderMetrics
	httpMetrics     *HTTPMetrics

	providerLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "atomic_explorer",
//		Subsystem: "aihub",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = append([]float64(nil), config.DefaultLatencyBuckets...)
	}

	c := &Collector{
		config:          cfg,
		registry:        registry,
		providerLimiter: NewCardinalityLimiter(maxProviderLabels),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.httpMetrics = NewHTTPMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordAttempt records one transport attempt against provider.
// outcome is the attempt's kind label (success, rejected, unreachable,
// empty_response). Latency is observed for every attempt.
func (c *Collector) RecordAttempt(provider, outcome string, latency time.Duration) {
	if !c.enabled() {
		return
	}

	if !c.providerLimiter.Allow(provider) {
		provider = otherProvider
	}

	c.providerMetrics.RecordAttempt(provider, outcome, latency)
}

// RecordRequest records a finished logical gateway request.
//
// Parameters:
//   - operation: "chat", "analysis" or "insight"
//   - result: "success", "exhausted", "canceled", "config_error" or "fallback"
//   - attempts: number of transport attempts made
//   - duration: total wall time of the request
func (c *Collector) RecordRequest(operation, result string, attempts int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordRequest(operation, result, attempts, duration)
}

// RecordRepairFailure records a structured payload that could not be parsed.
func (c *Collector) RecordRepairFailure(operation string) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordRepairFailure(operation)
}

// RecordDeduplicated records a request served by an in-flight identical request.
func (c *Collector) RecordDeduplicated(operation string) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordDeduplicated(operation)
}

// SetRegistrySize publishes the number of providers in the active registry.
func (c *Collector) SetRegistrySize(n int) {
	if !c.enabled() {
		return
	}
	c.providerMetrics.SetRegistrySize(n)
}

// RecordHTTPRequest records a request served by the HTTP API.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.RecordRequest(route, method, strconv.Itoa(status), duration)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to register additional custom metrics:
//
//	collector.Registry().MustRegister(myCustomMetric)
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used. Known values are always
// allowed; new values are allowed until the limit is reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
