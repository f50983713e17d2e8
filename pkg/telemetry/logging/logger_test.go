package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"atomic-explorer/aihub/pkg/config"
)

func newTestLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Writer = &buf
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", line, err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"json", Config{Level: "info", Format: "json"}, false},
		{"text", Config{Level: "debug", Format: "text"}, false},
		{"console", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"uppercase", Config{Level: "ERROR", Format: "JSON"}, false},
		{"invalid level", Config{Level: "verbose", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "warn", Format: "json"})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn to be written, got %q", buf.String())
	}
}

func TestLogger_ContextFields(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "debug", Format: "json"})

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithOperation(ctx, "chat")
	ctx = WithProvider(ctx, "google/gemma-2-9b-it:free")

	logger.InfoContext(ctx, "attempt succeeded", "rank", 3)

	entry := decodeLine(t, buf)
	want := map[string]any{
		"request_id": "req-42",
		"operation":  "chat",
		"provider":   "google/gemma-2-9b-it:free",
		"rank":       float64(3),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("field %s: expected %v, got %v", k, v, entry[k])
		}
	}
}

func TestLogger_WithContext(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json"})

	if got := logger.WithContext(context.Background()); got != logger {
		t.Error("expected same logger when context has no fields")
	}

	logger.WithContext(WithRequestID(context.Background(), "abc")).Info("hello")
	if entry := decodeLine(t, buf); entry["request_id"] != "abc" {
		t.Errorf("expected request_id abc, got %v", entry["request_id"])
	}
}

func TestLogger_RedactsSecrets(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json", RedactSecrets: true})

	logger.Info("calling provider",
		"header", "Bearer sk-or-v1-0123456789abcdef",
		"api_key", "sk-or-v1-0123456789abcdef",
		"error", errors.New("401 for key sk-or-v1-deadbeefcafe"),
	)

	out := buf.String()
	if strings.Contains(out, "0123456789abcdef") || strings.Contains(out, "deadbeefcafe") {
		t.Fatalf("secret leaked into log output: %s", out)
	}

	entry := decodeLine(t, buf)
	if entry["header"] != "Bearer ***" {
		t.Errorf("expected bearer token masked, got %v", entry["header"])
	}
	if entry["api_key"] != "sk-or***" {
		t.Errorf("expected api_key masked to prefix, got %v", entry["api_key"])
	}
}

func TestLogger_WithIsRedacted(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json", RedactSecrets: true})

	logger.With("authorization", "Bearer abcdefghijk").Info("x")
	logger.Slog().Info("y", "detail", "key sk-abcdefghijklmnop")

	if strings.Contains(buf.String(), "abcdefghijk") {
		t.Errorf("secret leaked through derived logger: %s", buf.String())
	}
}

func TestLogger_NoRedactionWhenDisabled(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json"})

	logger.Info("plain", "detail", "sk-abcdefghijklmnop")
	if !strings.Contains(buf.String(), "sk-abcdefghijklmnop") {
		t.Errorf("expected raw value when redaction disabled, got %s", buf.String())
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.LoggingConfig{Level: "debug", Format: "console", RedactSecrets: true}, nil)
	if cfg.Level != "debug" || cfg.Format != "console" || !cfg.RedactSecrets {
		t.Errorf("unexpected logger config %+v", cfg)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing")
	if logger.Enabled(-100) {
		t.Error("nop logger should not be enabled at any level")
	}
}
