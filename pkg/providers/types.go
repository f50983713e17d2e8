package providers

import "strings"

// Message represents a single message in a conversation.
// It is provider-agnostic; the wire layer encodes it unchanged.
type Message struct {
	// Role identifies the message sender (user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// HistoryEntry is one prior turn as reported by a caller (for example the chat UI).
// Role may use provider-neutral names such as "model"; entries are normalized
// by the request builder before anything is sent.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Envelope is the provider-agnostic request built once per logical request.
// Only the provider identifier changes between failover attempts, so the
// messages must be treated as read-only after construction.
type Envelope struct {
	// Messages is the ordered conversation sent to every provider
	Messages []Message

	// Temperature controls sampling randomness
	Temperature float64
}

// NewEnvelope creates an envelope holding its own copy of messages.
func NewEnvelope(messages []Message, temperature float64) *Envelope {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	return &Envelope{
		Messages:    msgs,
		Temperature: temperature,
	}
}

// ForProvider returns the wire request for a single attempt against providerID.
func (e *Envelope) ForProvider(providerID string) *ChatRequest {
	msgs := make([]Message, len(e.Messages))
	copy(msgs, e.Messages)
	return &ChatRequest{
		Model:       providerID,
		Messages:    msgs,
		Temperature: e.Temperature,
	}
}

// Message role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// RoleModel is the provider-neutral alias some callers use for assistant turns.
	RoleModel = "model"
)

// NormalizeRole maps a caller role onto the canonical wire roles.
// The second return value is false for roles that must be dropped.
func NormalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleUser:
		return RoleUser, true
	case RoleAssistant, RoleModel:
		return RoleAssistant, true
	default:
		return "", false
	}
}
