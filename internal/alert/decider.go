package alert

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/metrics"
)

// Trigger reasons reported on AlertDecision.Reason when an alert fires.
const (
	reasonNegativeSentiment = "negative sentiment threshold breached"
	reasonElevatedEmotion   = "elevated anger or frustration"
	reasonHighPriority      = "high priority ticket"
)

// Decider applies the trigger rules and cooldown deduplication. The cooldown
// entry is committed at the decision point, after all checks pass, so a
// timed-out run leaves no state behind.
type Decider struct {
	store     CooldownStore
	threshold float64
	cooldown  time.Duration
}

// NewDecider builds a decider. threshold is the positive magnitude below
// which negative sentiment triggers (alert when score < -threshold);
// cooldown is how long duplicates for the same key stay suppressed.
func NewDecider(store CooldownStore, threshold float64, cooldown time.Duration) *Decider {
	return &Decider{store: store, threshold: threshold, cooldown: cooldown}
}

// Decide evaluates an event using the default dedup key (channel + source).
func (d *Decider) Decide(ctx context.Context, signal domain.SentimentSignal, ticket domain.Ticket) (domain.AlertDecision, error) {
	return d.DecideKeyed(ctx, ticket.DedupKey(), signal, ticket)
}

// DecideKeyed evaluates an event under a caller-chosen dedup key. Suppression
// is severity-blind: an unexpired cooldown mutes the event no matter how
// severe the new one is.
func (d *Decider) DecideKeyed(ctx context.Context, key string, signal domain.SentimentSignal, ticket domain.Ticket) (domain.AlertDecision, error) {
	reason, triggered := d.triggerReason(signal, ticket)
	if !triggered {
		metrics.AlertsTotal.WithLabelValues("none", "not_triggered").Inc()
		return domain.AlertDecision{ShouldAlert: false, Reason: domain.ReasonNoConditions}, nil
	}

	severity := severityOf(signal, ticket)

	acquired, err := d.store.Acquire(ctx, key, d.cooldown)
	if err != nil {
		// Fail open: a suppressed alert is worse than an occasional duplicate.
		slog.WarnContext(ctx, "cooldown store unavailable, allowing alert",
			"key", key, "error", err)
		acquired = true
	}
	if !acquired {
		metrics.AlertsTotal.WithLabelValues(string(severity), "suppressed").Inc()
		return domain.AlertDecision{ShouldAlert: false, Reason: domain.ReasonCooldown}, nil
	}

	content := renderContent(signal, ticket, severity)
	metrics.AlertsTotal.WithLabelValues(string(severity), "triggered").Inc()

	return domain.AlertDecision{
		ShouldAlert: true,
		Severity:    severity,
		Reason:      reason,
		Content:     &content,
	}, nil
}

func (d *Decider) triggerReason(signal domain.SentimentSignal, ticket domain.Ticket) (string, bool) {
	if signal.Score < -d.threshold {
		return reasonNegativeSentiment, true
	}
	if signal.Emotion(domain.EmotionAnger) > 0.5 || signal.Emotion(domain.EmotionFrustration) > 0.5 {
		return reasonElevatedEmotion, true
	}
	if ticket.Priority == domain.PriorityHigh || ticket.Priority == domain.PriorityUrgent {
		return reasonHighPriority, true
	}
	return "", false
}

func severityOf(signal domain.SentimentSignal, ticket domain.Ticket) domain.AlertSeverity {
	magnitude := math.Abs(signal.Score)
	anger := signal.Emotion(domain.EmotionAnger)
	frustration := signal.Emotion(domain.EmotionFrustration)

	switch {
	case magnitude > 0.7 || anger > 0.7 || ticket.Priority == domain.PriorityUrgent:
		return domain.SeverityCritical
	case magnitude > 0.5 || anger > 0.5 || frustration > 0.5 || ticket.Priority == domain.PriorityHigh:
		return domain.SeverityHigh
	case magnitude > 0.3:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
