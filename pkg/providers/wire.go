package providers

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ChatRequest is the OpenAI-compatible chat completion request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse is the subset of the chat completion response the gateway reads.
type ChatResponse struct {
	ID      string       `json:"id,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is a single completion choice.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// contentPath locates the assistant text in a completion body.
const contentPath = "choices.0.message.content"

// extractContent returns the first choice's message content. The boolean is
// false when the body is not JSON, has no choices, or the content is not a
// non-empty string.
func extractContent(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	res := gjson.GetBytes(body, contentPath)
	if res.Type != gjson.String || res.Str == "" {
		return "", false
	}
	return res.Str, true
}

// extractReason pulls a human readable failure reason out of an error body.
// Providers answer with {"error":{"message":...}}, {"error":"..."} or plain
// text; anything else falls back to the HTTP status text.
func extractReason(statusCode int, body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error.message"); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
		if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
		if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return truncate(text, maxReasonLen)
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "unknown error"
}

const maxReasonLen = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
