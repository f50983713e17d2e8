package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrRepair matches any RepairError.
var ErrRepair = errors.New("structured payload repair failed")

// maxSnippet bounds the raw text kept on a RepairError.
const maxSnippet = 200

// RepairError reports provider text that could not be turned into a record.
// Callers log it and use the fallback record; it never leaves the gateway.
type RepairError struct {
	// Reason describes why parsing failed
	Reason string

	// Snippet is the start of the offending text
	Snippet string
}

// Error implements the error interface.
func (e *RepairError) Error() string {
	return fmt.Sprintf("repair failed: %s", e.Reason)
}

// Is implements error matching for errors.Is().
func (e *RepairError) Is(target error) bool {
	return target == ErrRepair
}

func newRepairError(reason, text string) *RepairError {
	if len(text) > maxSnippet {
		text = text[:maxSnippet]
	}
	return &RepairError{Reason: reason, Snippet: text}
}

// stripFences removes a leading ``` or ```json line and a trailing ``` marker.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```json"), "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractObject returns the first top-level JSON object in text. Code fences
// and surrounding prose are ignored. A brace-delimited span that fails to
// decode is skipped as a whole, so a malformed object never yields one of its
// nested objects.
func ExtractObject(text string) (json.RawMessage, error) {
	cleaned := stripFences(text)

	offset := strings.IndexByte(cleaned, '{')
	if offset < 0 {
		return nil, newRepairError("no JSON object found", text)
	}

	for offset >= 0 {
		dec := json.NewDecoder(strings.NewReader(cleaned[offset:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}

		end := spanEnd(cleaned[offset:])
		if end < 0 {
			break
		}
		offset += end
		next := strings.IndexByte(cleaned[offset:], '{')
		if next < 0 {
			break
		}
		offset += next
	}

	return nil, newRepairError("no decodable JSON object", text)
}

// spanEnd returns the index just past the '}' that closes the '{' at s[0],
// ignoring braces inside JSON strings, or -1 when the span never closes.
func spanEnd(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// RepairAnalysis parses provider text into an Analysis. On failure it returns
// FallbackAnalysis and a *RepairError.
func RepairAnalysis(text string) (Analysis, error) {
	raw, err := ExtractObject(text)
	if err != nil {
		return FallbackAnalysis(), err
	}

	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return FallbackAnalysis(), newRepairError(err.Error(), text)
	}
	return a, nil
}

// RepairInsight parses provider text into an Insight. "uses" may be a string
// or an array of strings. On failure it returns FallbackInsight and a
// *RepairError.
func RepairInsight(text string) (Insight, error) {
	raw, err := ExtractObject(text)
	if err != nil {
		return FallbackInsight(), err
	}

	doc := gjson.ParseBytes(raw)
	funFact := doc.Get("funFact")
	uses := doc.Get("uses")

	if funFact.Type != gjson.String || strings.TrimSpace(funFact.String()) == "" {
		return FallbackInsight(), newRepairError("missing funFact", text)
	}

	insight := Insight{FunFact: funFact.String()}
	switch {
	case uses.IsArray():
		parts := make([]string, 0, len(uses.Array()))
		for _, u := range uses.Array() {
			if s := strings.TrimSpace(u.String()); s != "" {
				parts = append(parts, s)
			}
		}
		insight.Uses = strings.Join(parts, ", ")
	case uses.Type == gjson.String:
		insight.Uses = uses.String()
	}

	if strings.TrimSpace(insight.Uses) == "" {
		insight.Uses = FallbackInsight().Uses
	}
	return insight, nil
}
