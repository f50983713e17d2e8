package gateway

import (
	"fmt"
	"strings"

	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/providers"
)

// RequestBuilder turns caller input into provider envelopes. It is a value
// type with no state beyond its settings; the same input always yields the
// same envelope.
type RequestBuilder struct {
	// SystemInstruction is folded into the first user turn
	SystemInstruction string

	// Temperature is copied into every envelope
	Temperature float64
}

// DefaultRequestBuilder uses the default instruction and temperature.
func DefaultRequestBuilder() RequestBuilder {
	return RequestBuilder{
		SystemInstruction: config.DefaultSystemInstruction,
		Temperature:       config.DefaultTemperature,
	}
}

// BuildChat builds a chat envelope. History entries with blank content or an
// unknown role are dropped and "model" turns become assistant turns. With no
// usable history the instruction and question form one user message;
// otherwise the instruction prefixes the first kept turn and newMessage is
// appended as the final user turn. history is not modified.
func (b RequestBuilder) BuildChat(newMessage string, history []providers.HistoryEntry) *providers.Envelope {
	kept := make([]providers.Message, 0, len(history)+1)
	for _, h := range history {
		if strings.TrimSpace(h.Content) == "" {
			continue
		}
		role, ok := providers.NormalizeRole(h.Role)
		if !ok {
			continue
		}
		kept = append(kept, providers.Message{Role: role, Content: h.Content})
	}

	if len(kept) == 0 {
		return providers.NewEnvelope([]providers.Message{{
			Role:    providers.RoleUser,
			Content: b.SystemInstruction + "\n\nQuestion: " + newMessage,
		}}, b.Temperature)
	}

	kept[0].Content = b.SystemInstruction + "\n\n" + kept[0].Content
	kept = append(kept, providers.Message{Role: providers.RoleUser, Content: newMessage})

	return providers.NewEnvelope(kept, b.Temperature)
}

// analysisPrompt asks for the Analysis schema without markdown.
const analysisPrompt = `Analyze the chemical reaction between %s and %s.
Return strictly valid JSON (no markdown):
{
  "reacts": boolean,
  "equation": "Balanced Chemical Equation or null",
  "visuals": "Short visual description",
  "explanation": "One scientific sentence.",
  "dangerLevel": "None | Low | Moderate | High | Critical",
  "type": "synthesis"
}`

// BuildAnalysis builds the single-message envelope for a reaction analysis.
func (b RequestBuilder) BuildAnalysis(subjectA, subjectB string) *providers.Envelope {
	prompt := fmt.Sprintf(analysisPrompt, strings.TrimSpace(subjectA), strings.TrimSpace(subjectB))
	return providers.NewEnvelope([]providers.Message{
		{Role: providers.RoleUser, Content: prompt},
	}, b.Temperature)
}

const insightPrompt = `Tell me about the element %s.
Return strictly valid JSON with this format:
{
  "funFact": "One short, surprising scientific fact about it.",
  "uses": "A short list of 3 common real-world uses."
}`

// BuildElementInsight builds an element fact request. It goes through the
// chat path with no history, so the system instruction applies.
func (b RequestBuilder) BuildElementInsight(element string) *providers.Envelope {
	return b.BuildChat(fmt.Sprintf(insightPrompt, strings.TrimSpace(element)), nil)
}
