package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Default OpenRouter endpoint and attribution headers.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultReferer = "http://localhost:5173"
	DefaultTitle   = "Atomic Explorer"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 10 << 20

// Transport performs exactly one network attempt against one provider.
//
// Implementations never retry and never return an error: every failure is
// classified into an Outcome so the failover executor can decide what to do.
// The context bounds the attempt; cancellation yields OutcomeUnreachable.
type Transport interface {
	Call(ctx context.Context, providerID string, env *Envelope) Outcome
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, providerID string, env *Envelope) Outcome

// Call implements Transport.
func (f TransportFunc) Call(ctx context.Context, providerID string, env *Envelope) Outcome {
	return f(ctx, providerID, env)
}

// TransportConfig configures an HTTPTransport.
type TransportConfig struct {
	// BaseURL is the API base; "/chat/completions" is appended
	BaseURL string

	// APIKey is the bearer credential shared by all providers
	APIKey string

	// Referer is sent as the HTTP-Referer attribution header
	Referer string

	// Title is sent as the X-Title attribution header
	Title string

	// Connection pool tuning
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Logger receives per-attempt debug records; slog.Default() when nil
	Logger *slog.Logger
}

// HTTPTransport is the Transport used in production. It holds a pooled HTTP
// client shared by every provider because all providers sit behind the same
// aggregator endpoint.
type HTTPTransport struct {
	config   TransportConfig
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPTransport creates a transport with connection pooling.
// A blank API key is accepted here; callers check credentials before I/O.
func NewHTTPTransport(config TransportConfig) *HTTPTransport {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Referer == "" {
		config.Referer = DefaultReferer
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost <= 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout <= 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPTransport{
		config:   config,
		endpoint: strings.TrimRight(config.BaseURL, "/") + "/chat/completions",
		// No client timeout: the per-attempt deadline comes from the context.
		client: &http.Client{Transport: transport},
		logger: logger,
	}
}

// Endpoint returns the chat completions URL the transport posts to.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Call sends one chat completion request for providerID and classifies the result.
func (t *HTTPTransport) Call(ctx context.Context, providerID string, env *Envelope) Outcome {
	start := time.Now()

	body, err := json.Marshal(env.ForProvider(providerID))
	if err != nil {
		// Message structs always marshal; treat the impossible case as unreachable.
		return Unreachable(fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return Unreachable(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+t.config.APIKey)
	req.Header.Set("HTTP-Referer", t.config.Referer)
	req.Header.Set("X-Title", t.config.Title)
	req.Header.Set("Content-Type", "application/json")

	t.logger.Debug("sending request to provider",
		"provider", providerID,
		"url", t.endpoint,
		"messages", len(env.Messages),
	)

	resp, err := t.client.Do(req)
	if err != nil {
		return Unreachable(err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Unreachable(fmt.Sprintf("failed to read response: %v", err))
	}
	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Rejected(resp.StatusCode, extractReason(resp.StatusCode, respBody))
	}

	content, ok := extractContent(respBody)
	if !ok {
		t.logger.Debug("provider returned no content",
			"provider", providerID,
			"status", resp.StatusCode,
			"bytes", len(respBody),
		)
		return EmptyResponse()
	}

	return Success(content, latency)
}

// Close releases idle pooled connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
