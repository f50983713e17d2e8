package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atomic-explorer/aihub/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tracer, err := NewWithProcessor(&config.TracingConfig{
		Enabled:     true,
		Sampler:     SamplerAlways,
		ServiceName: "test-service",
	}, recorder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
		enabled bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled", config: &config.TracingConfig{Enabled: false}},
		{
			name: "enabled lazy otlp",
			config: &config.TracingConfig{
				Enabled:       true,
				Sampler:       SamplerRatio,
				SampleRatio:   0.5,
				Endpoint:      "localhost:4317",
				Insecure:      true,
				ExportTimeout: time.Second,
			},
			enabled: true,
		},
		{
			name:    "bad sampler",
			config:  &config.TracingConfig{Enabled: true, Sampler: "sometimes", Endpoint: "localhost:4317"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() { _ = tracer.Shutdown(context.Background()) }()

			if tracer.Enabled() != tt.enabled {
				t.Errorf("expected enabled=%v, got %v", tt.enabled, tracer.Enabled())
			}
		})
	}
}

func TestTracer_DisabledIsNoop(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, span := tracer.Start(context.Background(), SpanRequest)
	defer span.End()

	if span.IsRecording() {
		t.Error("expected noop span")
	}
	if TraceID(ctx) != "" {
		t.Error("expected no trace ID from noop tracer")
	}
}

func TestTracer_NilIsSafe(t *testing.T) {
	var tracer *Tracer

	_, span := tracer.Start(context.Background(), SpanAttempt)
	span.End()

	if tracer.Enabled() {
		t.Error("expected nil tracer to be disabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestTracer_AttemptSpansAreChildren(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, parent := tracer.Start(context.Background(), SpanRequest)
	SetRequestAttributes(parent, "chat", "req-1", 2)

	_, attempt := tracer.Start(ctx, SpanAttempt)
	SetAttemptAttributes(attempt, "model-a", 0, "rejected", 429, 120*time.Millisecond)
	SetError(attempt, errors.New("rate limited"))
	attempt.End()

	SetResultAttributes(parent, "success", "model-b", 2)
	SetStatus(parent, nil)
	parent.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	child, root := spans[0], spans[1]
	if child.Parent().SpanID() != root.SpanContext().SpanID() {
		t.Error("expected attempt span to be a child of the request span")
	}
	if child.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", child.Status().Code)
	}
	if v, ok := attrValue(child.Attributes(), AttrStatusCode); !ok || v.AsInt64() != 429 {
		t.Errorf("expected status code 429, got %v", v)
	}
	if v, ok := attrValue(root.Attributes(), AttrAttempts); !ok || v.AsInt64() != 2 {
		t.Errorf("expected 2 attempts, got %v", v)
	}
	if v, ok := attrValue(root.Attributes(), AttrRequestID); !ok || v.AsString() != "req-1" {
		t.Errorf("expected request id req-1, got %v", v)
	}
}

func TestSetAttemptAttributes_OmitsZeroStatus(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), SpanAttempt)
	SetAttemptAttributes(span, "model-a", 3, "unreachable", 0, time.Second)
	span.End()

	attrs := recorder.Ended()[0].Attributes()
	if _, ok := attrValue(attrs, AttrStatusCode); ok {
		t.Error("expected no status code attribute")
	}
	if v, _ := attrValue(attrs, AttrRank); v.AsInt64() != 3 {
		t.Errorf("expected rank 3, got %v", v.AsInt64())
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.25, false},
		{"", 1.0, false},
		{SamplerRatio, 1.5, true},
		{SamplerRatio, -0.1, true},
		{"bogus", 0.5, true},
	}

	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v): expected error=%v, got %v", tt.strategy, tt.ratio, tt.wantErr, err)
		}
	}
}

func TestSampler_Never(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer, err := NewWithProcessor(&config.TracingConfig{Enabled: true, Sampler: SamplerNever}, recorder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := tracer.Start(context.Background(), SpanRequest)
	span.End()

	if len(recorder.Ended()) != 0 {
		t.Errorf("expected no recorded spans, got %d", len(recorder.Ended()))
	}
}

func TestHTTPMiddleware_EchoesTraceID(t *testing.T) {
	// A tracer must exist so the W3C propagator is installed.
	newRecordingTracer(t)

	traceID := "4bf92f3577b34da6a3ce929d0e0e4736"
	var seen string
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = trace.SpanContextFromContext(r.Context()).TraceID().String()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != traceID {
		t.Errorf("expected trace ID %s in handler context, got %s", traceID, seen)
	}
	if got := rec.Header().Get(TraceIDHeader); got != traceID {
		t.Errorf("expected %s header %s, got %s", TraceIDHeader, traceID, got)
	}
}

func TestInjectExtractRoundTrip(t *testing.T) {
	tracer, _ := newRecordingTracer(t)

	ctx, span := tracer.Start(context.Background(), SpanRequest)
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if headers.Get("traceparent") == "" {
		t.Fatal("expected traceparent header")
	}

	extracted := Extract(context.Background(), headers)
	if trace.SpanContextFromContext(extracted).TraceID() != span.SpanContext().TraceID() {
		t.Error("expected extracted trace ID to match")
	}
}
