package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atomic-explorer/aihub/pkg/config"
)

func TestChecker_Liveness(t *testing.T) {
	checker := New(0)

	report := checker.Liveness()
	if report.Status != StatusOK {
		t.Errorf("expected status %s, got %s", StatusOK, report.Status)
	}
	if checker.checkTimeout != DefaultCheckTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultCheckTimeout, checker.checkTimeout)
	}
}

func TestChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantReady  bool
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
			wantReady:  true,
		},
		{
			name: "all pass",
			checks: map[string]CheckFunc{
				"registry":   func(context.Context) error { return nil },
				"credential": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
			wantReady:  true,
		},
		{
			name: "one fails",
			checks: map[string]CheckFunc{
				"registry":   func(context.Context) error { return nil },
				"credential": func(context.Context) error { return errors.New("no API key configured") },
			},
			wantStatus: StatusNotReady,
			wantReady:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.Register(name, check)
			}

			report := checker.Readiness(context.Background())
			if report.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, report.Status)
			}
			if report.Ready() != tt.wantReady {
				t.Errorf("expected ready=%v, got %v", tt.wantReady, report.Ready())
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("expected %d results, got %d", len(tt.checks), len(report.Checks))
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	report := checker.Readiness(context.Background())
	result := report.Checks["slow"]
	if result.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", result.Status)
	}
}

func TestChecker_Names(t *testing.T) {
	checker := New(time.Second)
	checker.Register("registry", func(context.Context) error { return nil })
	checker.Register("credential", func(context.Context) error { return nil })
	checker.Register("registry", func(context.Context) error { return nil })

	names := checker.Names()
	if len(names) != 2 || names[0] != "credential" || names[1] != "registry" {
		t.Errorf("expected [credential registry], got %v", names)
	}
}

func TestReadinessHandler(t *testing.T) {
	checker := New(time.Second)
	failing := true
	checker.Register("credential", func(context.Context) error {
		if failing {
			return errors.New("no API key configured")
		}
		return nil
	})

	rec := httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if report.Checks["credential"].Message != "no API key configured" {
		t.Errorf("expected failure message, got %q", report.Checks["credential"].Message)
	}

	failing = false
	rec = httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	checker := New(time.Second)

	handlers := []http.Handler{
		checker.LivenessHandler(),
		checker.ReadinessHandler(),
		VersionHandler(NewVersionInfo("dev", "none", "unknown")),
	}

	for _, h := range handlers {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	}
}

func TestHandlers_HeadHasNoBody(t *testing.T) {
	checker := New(time.Second)

	rec := httptest.NewRecorder()
	checker.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestMount(t *testing.T) {
	cfg := config.HealthConfig{
		LivenessPath:  "/healthz",
		ReadinessPath: "/readyz",
		VersionPath:   "/version",
	}
	mux := http.NewServeMux()
	Mount(mux, cfg, New(time.Second), NewVersionInfo("1.2.3", "abc123", "2026-10-16"))

	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode version: %v", err)
	}
	if info.Version != "1.2.3" || info.GoVersion == "" {
		t.Errorf("unexpected version info: %+v", info)
	}
}
