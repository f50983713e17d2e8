package providers

import (
	"net/http"
	"testing"
	"time"
)

// ChatCompletion builds a successful chat completion body with content.
func ChatCompletion(content string, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "gen-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

// MockSuccess returns a 200 response whose content is content.
func MockSuccess(content string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       ChatCompletion(content, "mock"),
	}
}

// MockEmpty returns a 200 response with no choices.
func MockEmpty() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"choices": []interface{}{}},
	}
}

// MockErrorResponse returns an {"error":{"message":...}} body.
func MockErrorResponse(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body: map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
				"code":    statusCode,
			},
		},
	}
}

// MockStringError returns an {"error":"..."} body.
func MockStringError(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body:       map[string]interface{}{"error": message},
	}
}

// MockTextError returns a plain text error body.
func MockTextError(statusCode int, text string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body:       text,
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}
}

// MockRateLimitError creates a 429 rate limit error response.
func MockRateLimitError() MockResponse {
	return MockErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded")
}

// MockServerError creates a 500 internal server error response.
func MockServerError() MockResponse {
	return MockErrorResponse(http.StatusInternalServerError, "Internal server error")
}

// MockSlow returns a successful response delivered after delay.
func MockSlow(content string, delay time.Duration) MockResponse {
	r := MockSuccess(content)
	r.Delay = delay
	return r
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertModels fails the test unless got equals want element by element.
func AssertModels(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d attempts %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("attempt %d: expected model %q, got %q", i, want[i], got[i])
		}
	}
}
