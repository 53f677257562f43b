// Package risk converts a sentiment signal plus ticket context into a
// multi-factor risk assessment used for alerting and escalation routing.
package risk

import "strings"

// Detector finds risk indicator phrases in ticket content. The lexicon
// implementation below matches keyword lists; a model-based scorer can be
// dropped in without touching the assessor.
type Detector interface {
	ChurnIndicators(content string) []string
	EscalationIndicators(content string) []string
	UrgencyWords(content string) []string
}

// Default indicator lexicons, overridable via configuration.
var (
	DefaultChurnIndicators = []string{
		"cancel", "refund", "unsubscribe", "delete account", "close account",
		"never use again", "switch to competitor", "terrible service",
		"worst experience", "hate this", "useless", "waste of money",
	}
	DefaultEscalationIndicators = []string{
		"urgent", "asap", "immediately", "now", "critical", "emergency",
		"escalate", "manager", "supervisor", "ceo", "legal", "lawyer",
		"social media", "twitter", "facebook", "review", "complain",
	}
	DefaultUrgencyWords = []string{
		"urgent", "asap", "immediately", "now", "critical", "emergency",
	}
)

// LexiconDetector matches indicator phrases by case-insensitive substring
// search. Stateless and safe for concurrent use.
type LexiconDetector struct {
	churn      []string
	escalation []string
	urgency    []string
}

// NewLexiconDetector builds a detector from the given phrase lists. Empty
// lists fall back to the defaults.
func NewLexiconDetector(churn, escalation, urgency []string) *LexiconDetector {
	if len(churn) == 0 {
		churn = DefaultChurnIndicators
	}
	if len(escalation) == 0 {
		escalation = DefaultEscalationIndicators
	}
	if len(urgency) == 0 {
		urgency = DefaultUrgencyWords
	}
	return &LexiconDetector{churn: churn, escalation: escalation, urgency: urgency}
}

func (d *LexiconDetector) ChurnIndicators(content string) []string {
	return matchPhrases(content, d.churn)
}

func (d *LexiconDetector) EscalationIndicators(content string) []string {
	return matchPhrases(content, d.escalation)
}

func (d *LexiconDetector) UrgencyWords(content string) []string {
	return matchPhrases(content, d.urgency)
}

func matchPhrases(content string, phrases []string) []string {
	lower := strings.ToLower(content)
	var found []string
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			found = append(found, phrase)
		}
	}
	return found
}
