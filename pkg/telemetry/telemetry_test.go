package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"atomic-explorer/aihub/pkg/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	tel, err := New(&cfg.Telemetry, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = tel.Shutdown(context.Background()) }()

	if tel.Metrics() == nil {
		t.Error("expected metrics collector when metrics are enabled")
	}
	if tel.Tracer().Enabled() {
		t.Error("expected tracing disabled by default")
	}
	if tel.Health() == nil {
		t.Error("expected health checker")
	}

	tel.Logger().Info("gateway ready", "api_key", "sk-or-v1-abcdef0123456789")
	if strings.Contains(buf.String(), "abcdef0123456789") {
		t.Errorf("expected api key redacted, got %q", buf.String())
	}
}

func TestNew_MetricsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.Metrics.Enabled = false

	tel, err := New(&cfg.Telemetry, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tel.Metrics() != nil {
		t.Error("expected nil collector when metrics are disabled")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg := config.Default()
	cfg.Telemetry.Logging.Level = "loud"
	if _, err := New(&cfg.Telemetry, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid log level")
	}
}
