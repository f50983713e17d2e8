package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/telemetry/health"
	"atomic-explorer/aihub/pkg/telemetry/logging"
	"atomic-explorer/aihub/pkg/telemetry/metrics"
	"atomic-explorer/aihub/pkg/telemetry/tracing"
)

// Telemetry bundles the logger, metrics collector, tracer and health checker
// built from one TelemetryConfig.
type Telemetry struct {
	logger    *logging.Logger
	collector *metrics.Collector
	tracer    *tracing.Tracer
	checker   *health.Checker
}

// New builds every telemetry component. w receives log output; nil means
// standard error.
func New(cfg *config.TelemetryConfig, w io.Writer) (*Telemetry, error) {
	if cfg == nil {
		return nil, errors.New("telemetry config is nil")
	}

	logger, err := logging.New(logging.ConfigFrom(cfg.Logging, w))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics, nil)
	}

	return &Telemetry{
		logger:    logger,
		collector: collector,
		tracer:    tracer,
		checker:   health.New(cfg.Health.CheckTimeout),
	}, nil
}

// Logger returns the structured logger.
func (t *Telemetry) Logger() *logging.Logger { return t.logger }

// Metrics returns the collector, or nil when metrics are disabled.
func (t *Telemetry) Metrics() *metrics.Collector { return t.collector }

// Tracer returns the tracer. It is a noop tracer when tracing is disabled.
func (t *Telemetry) Tracer() *tracing.Tracer { return t.tracer }

// Health returns the readiness checker.
func (t *Telemetry) Health() *health.Checker { return t.checker }

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
