package alert

import (
	"fmt"
	"strings"

	"github.com/pulsecheck/watchdog/internal/domain"
)

const contentPreviewLimit = 200

// renderContent builds the notification payload the external transport
// delivers. Rendering is pure string assembly; no delivery happens here.
func renderContent(signal domain.SentimentSignal, ticket domain.Ticket, severity domain.AlertSeverity) domain.AlertContent {
	return domain.AlertContent{
		Title:           titleFor(severity),
		Message:         messageFor(signal, ticket),
		Recommendations: contentRecommendations(signal, ticket, severity),
	}
}

func titleFor(severity domain.AlertSeverity) string {
	switch severity {
	case domain.SeverityCritical:
		return "CRITICAL: very negative customer sentiment detected"
	case domain.SeverityHigh:
		return "HIGH: negative customer sentiment alert"
	default:
		return "MEDIUM: customer sentiment alert"
	}
}

func messageFor(signal domain.SentimentSignal, ticket domain.Ticket) string {
	var b strings.Builder
	b.WriteString("Customer Sentiment Alert\n\n")
	fmt.Fprintf(&b, "Ticket: %s\n", ticket.ID)
	fmt.Fprintf(&b, "Channel: %s\n", ticket.Channel)
	fmt.Fprintf(&b, "Source: %s\n", ticket.Source)
	fmt.Fprintf(&b, "Priority: %s\n\n", ticket.Priority)
	fmt.Fprintf(&b, "Overall sentiment: %.3f (%s)\n", signal.Score, sentimentLabel(signal.Score))
	fmt.Fprintf(&b, "Anger: %.3f\n", signal.Emotion(domain.EmotionAnger))
	fmt.Fprintf(&b, "Frustration: %.3f\n\n", signal.Emotion(domain.EmotionFrustration))
	fmt.Fprintf(&b, "Content preview: %s", preview(ticket.Content))
	return b.String()
}

func sentimentLabel(score float64) string {
	switch {
	case score < -0.5:
		return "very negative"
	case score < -0.1:
		return "negative"
	case score < 0.1:
		return "neutral"
	case score < 0.5:
		return "positive"
	default:
		return "very positive"
	}
}

func preview(content string) string {
	if len(content) <= contentPreviewLimit {
		return content
	}
	return content[:contentPreviewLimit] + "..."
}

func contentRecommendations(signal domain.SentimentSignal, ticket domain.Ticket, severity domain.AlertSeverity) []string {
	var recs []string
	if severity == domain.SeverityCritical || severity == domain.SeverityHigh {
		recs = append(recs,
			"immediate attention required - consider escalating to senior support",
			"personal outreach - phone call or direct message recommended",
		)
	}
	if signal.Emotion(domain.EmotionAnger) > 0.3 {
		recs = append(recs, "high anger detected - use calming language and acknowledge frustration")
	}
	if signal.Emotion(domain.EmotionConfusion) > 0.3 {
		recs = append(recs, "customer confusion detected - provide clear, step-by-step explanations")
	}
	if ticket.Priority == domain.PriorityHigh || ticket.Priority == domain.PriorityUrgent {
		recs = append(recs, "high priority ticket - expedite resolution process")
	}
	if len(recs) == 0 {
		recs = append(recs, "standard response - follow normal support procedures")
	}
	return recs
}
