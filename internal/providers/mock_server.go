package providers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"atomic-explorer/aihub/pkg/providers"
)

// MockServer is a fake OpenAI-compatible aggregator for tests.
// Responses are chosen by the "model" field of the request body, so a single
// server can play every provider in a registry.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	fallback  *MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// RecordedRequest captures one request received by the mock server.
type RecordedRequest struct {
	Model   string
	Header  http.Header
	Body    providers.ChatRequest
	RawBody []byte
}

// ChatPath is the path the transport posts to, relative to the server URL.
const ChatPath = "/chat/completions"

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL, suitable for TransportConfig.BaseURL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets the response returned for requests naming model.
func (ms *MockServer) SetResponse(model string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[model] = response
}

// SetDefault sets the response for models without a specific entry.
// Without a default such requests receive 404.
func (ms *MockServer) SetDefault(response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.fallback = &response
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// Requests returns a copy of the recorded requests in arrival order.
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]RecordedRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// Models returns the model of each recorded request in arrival order.
func (ms *MockServer) Models() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	models := make([]string, len(ms.requests))
	for i, r := range ms.requests {
		models[i] = r.Model
	}
	return models
}

// Reset clears recorded requests.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requests = nil
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != ChatPath || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	raw, _ := io.ReadAll(r.Body)
	var body providers.ChatRequest
	_ = json.Unmarshal(raw, &body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Model:   body.Model,
		Header:  r.Header.Clone(),
		Body:    body,
		RawBody: raw,
	})
	response, ok := ms.responses[body.Model]
	if !ok && ms.fallback != nil {
		response, ok = *ms.fallback, true
	}
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	if _, isJSON := response.Body.(string); !isJSON {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}
