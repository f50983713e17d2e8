package providers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	mock "atomic-explorer/aihub/internal/providers"
	"atomic-explorer/aihub/pkg/providers"
)

func newTestTransport(ms *mock.MockServer) *providers.HTTPTransport {
	return providers.NewHTTPTransport(providers.TransportConfig{
		BaseURL: ms.URL(),
		APIKey:  "sk-or-test",
	})
}

func testEnvelope() *providers.Envelope {
	return providers.NewEnvelope([]providers.Message{
		{Role: providers.RoleUser, Content: "What is helium?"},
	}, 0.7)
}

func TestHTTPTransport_Success(t *testing.T) {
	ms := mock.NewMockServer()
	defer ms.Close()
	ms.SetResponse("model-a", mock.MockSuccess("Helium is a noble gas."))

	tr := newTestTransport(ms)
	defer tr.Close()

	out := tr.Call(context.Background(), "model-a", testEnvelope())
	if out.Kind != providers.OutcomeSuccess {
		t.Fatalf("expected success, got %s (%s)", out.Kind, out.Reason)
	}
	if out.Content != "Helium is a noble gas." {
		t.Errorf("expected content %q, got %q", "Helium is a noble gas.", out.Content)
	}
	if out.Latency <= 0 {
		t.Errorf("expected positive latency, got %v", out.Latency)
	}
	if err := out.Err("model-a"); err != nil {
		t.Errorf("expected nil error for success, got %v", err)
	}
}

func TestHTTPTransport_RequestShape(t *testing.T) {
	ms := mock.NewMockServer()
	defer ms.Close()
	ms.SetDefault(mock.MockSuccess("ok"))

	tr := newTestTransport(ms)
	env := providers.NewEnvelope([]providers.Message{
		{Role: providers.RoleUser, Content: "hi"},
		{Role: providers.RoleAssistant, Content: "hello"},
		{Role: providers.RoleUser, Content: "bye"},
	}, 0.7)

	tr.Call(context.Background(), "google/gemma-2-9b-it:free", env)

	reqs := ms.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	req := reqs[0]

	if req.Model != "google/gemma-2-9b-it:free" {
		t.Errorf("expected model to be sent, got %q", req.Model)
	}
	if req.Body.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", req.Body.Temperature)
	}
	if len(req.Body.Messages) != 3 || req.Body.Messages[1].Role != "assistant" {
		t.Errorf("expected messages to be forwarded unchanged, got %+v", req.Body.Messages)
	}

	headers := map[string]string{
		"Authorization": "Bearer sk-or-test",
		"HTTP-Referer":  providers.DefaultReferer,
		"X-Title":       providers.DefaultTitle,
		"Content-Type":  "application/json",
	}
	for key, want := range headers {
		if got := req.Header.Get(key); got != want {
			t.Errorf("header %s: expected %q, got %q", key, want, got)
		}
	}
}

func TestHTTPTransport_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		response   mock.MockResponse
		wantStatus int
		wantReason string
	}{
		{
			name:       "error object",
			response:   mock.MockErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded"),
			wantStatus: 429,
			wantReason: "Rate limit exceeded",
		},
		{
			name:       "error string",
			response:   mock.MockStringError(http.StatusBadRequest, "model not found"),
			wantStatus: 400,
			wantReason: "model not found",
		},
		{
			name:       "plain text",
			response:   mock.MockTextError(http.StatusBadGateway, "upstream down"),
			wantStatus: 502,
			wantReason: "upstream down",
		},
		{
			name:       "empty body",
			response:   mock.MockResponse{StatusCode: http.StatusServiceUnavailable},
			wantStatus: 503,
			wantReason: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := mock.NewMockServer()
			defer ms.Close()
			ms.SetResponse("m", tt.response)

			out := newTestTransport(ms).Call(context.Background(), "m", testEnvelope())
			if out.Kind != providers.OutcomeRejected {
				t.Fatalf("expected rejected, got %s", out.Kind)
			}
			if out.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, out.StatusCode)
			}
			if out.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, out.Reason)
			}

			err := out.Err("m")
			if !errors.Is(err, providers.ErrRejected) {
				t.Errorf("expected ErrRejected, got %v", err)
			}
			var rejected *providers.RejectedError
			if !errors.As(err, &rejected) || rejected.StatusCode != tt.wantStatus {
				t.Errorf("expected RejectedError with status %d, got %v", tt.wantStatus, err)
			}
		})
	}
}

func TestHTTPTransport_EmptyResponse(t *testing.T) {
	tests := []struct {
		name     string
		response mock.MockResponse
	}{
		{"no choices", mock.MockEmpty()},
		{"empty content", mock.MockSuccess("")},
		{"not json", mock.MockResponse{StatusCode: http.StatusOK, Body: "<html>oops</html>"}},
		{"null content", mock.MockResponse{
			StatusCode: http.StatusOK,
			Body:       `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := mock.NewMockServer()
			defer ms.Close()
			ms.SetResponse("m", tt.response)

			out := newTestTransport(ms).Call(context.Background(), "m", testEnvelope())
			if out.Kind != providers.OutcomeEmptyResponse {
				t.Fatalf("expected empty_response, got %s", out.Kind)
			}
			if !errors.Is(out.Err("m"), providers.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", out.Err("m"))
			}
		})
	}
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	ms := mock.NewMockServer()
	url := ms.URL()
	ms.Close()

	tr := providers.NewHTTPTransport(providers.TransportConfig{BaseURL: url, APIKey: "k"})
	out := tr.Call(context.Background(), "m", testEnvelope())
	if out.Kind != providers.OutcomeUnreachable {
		t.Fatalf("expected unreachable, got %s", out.Kind)
	}
	if out.Reason == "" {
		t.Error("expected a reason for unreachable outcome")
	}
	if !errors.Is(out.Err("m"), providers.ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", out.Err("m"))
	}
}

func TestHTTPTransport_DeadlineIsUnreachable(t *testing.T) {
	ms := mock.NewMockServer()
	defer ms.Close()
	ms.SetResponse("slow", mock.MockSlow("late", 2*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	out := newTestTransport(ms).Call(ctx, "slow", testEnvelope())
	if out.Kind != providers.OutcomeUnreachable {
		t.Fatalf("expected unreachable, got %s", out.Kind)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected call to stop at deadline, took %v", elapsed)
	}
}

func TestHTTPTransport_Endpoint(t *testing.T) {
	tr := providers.NewHTTPTransport(providers.TransportConfig{BaseURL: "https://example.test/api/v1/"})
	if got := tr.Endpoint(); got != "https://example.test/api/v1/chat/completions" {
		t.Errorf("unexpected endpoint %q", got)
	}

	def := providers.NewHTTPTransport(providers.TransportConfig{})
	if !strings.HasPrefix(def.Endpoint(), providers.DefaultBaseURL) {
		t.Errorf("expected default base URL, got %q", def.Endpoint())
	}
}
