package gateway

// ChatFallbackReply is the text chat consumers show when ChatCompletion fails.
const ChatFallbackReply = "Network unstable. All AI models are currently unreachable. Please try again in a moment."

// DangerLevel grades the hazard of a reaction.
type DangerLevel string

// Danger levels requested from providers.
const (
	DangerNone     DangerLevel = "None"
	DangerLow      DangerLevel = "Low"
	DangerModerate DangerLevel = "Moderate"
	DangerHigh     DangerLevel = "High"
	DangerCritical DangerLevel = "Critical"
)

// Valid reports whether d is one of the documented levels.
func (d DangerLevel) Valid() bool {
	switch d {
	case DangerNone, DangerLow, DangerModerate, DangerHigh, DangerCritical:
		return true
	}
	return false
}

// Analysis is the structured result of a reaction analysis. Every field is
// always present when encoded; a null equation decodes to "".
type Analysis struct {
	Reacts      bool        `json:"reacts"`
	Equation    string      `json:"equation"`
	Visuals     string      `json:"visuals"`
	Explanation string      `json:"explanation"`
	DangerLevel DangerLevel `json:"dangerLevel"`
	Type        string      `json:"type"`
}

// Insight is a short element fact sheet.
type Insight struct {
	FunFact string `json:"funFact"`
	Uses    string `json:"uses"`
}

// FallbackAnalysis returns the record used when analysis cannot be produced.
func FallbackAnalysis() Analysis {
	return Analysis{
		Reacts:      false,
		Visuals:     "Glitch",
		Explanation: "Data corruption in analysis stream.",
		DangerLevel: DangerNone,
		Type:        "neutral",
	}
}

// FallbackInsight returns the record used when an insight cannot be produced.
func FallbackInsight() Insight {
	return Insight{
		FunFact: "Data transmission interrupted. Elemental properties remain stable.",
		Uses:    "Research, Industry, Education",
	}
}
