package trend

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/metrics"
)

// neutralBand is the score band treated as neutral when counting snapshot
// categories. Both boundaries are inclusive: a score of exactly ±0.1 counts
// as neutral, not positive or negative.
const neutralBand = 0.1

// directionDelta is the minimum first-to-last score change before a window
// counts as improving or declining.
const directionDelta = 0.1

// Aggregator records snapshots and answers trend queries. It consumes every
// (ticket, signal) pair independently of the alerting pipeline.
type Aggregator struct {
	store Store
	clock clockwork.Clock
}

func NewAggregator(store Store, clock clockwork.Clock) *Aggregator {
	return &Aggregator{store: store, clock: clock}
}

// Record appends a snapshot for the ticket's dedup key.
func (a *Aggregator) Record(ctx context.Context, ticket domain.Ticket, signal domain.SentimentSignal) error {
	snapshot := domain.TrendSnapshot{
		Timestamp:   a.clock.Now(),
		Score:       signal.Score,
		Positive:    signal.Positive,
		Negative:    signal.Negative,
		Neutral:     signal.Neutral,
		Anger:       signal.Emotion(domain.EmotionAnger),
		Frustration: signal.Emotion(domain.EmotionFrustration),
		Priority:    ticket.Priority,
	}
	if err := a.store.Append(ctx, ticket.DedupKey(), snapshot); err != nil {
		return fmt.Errorf("append trend snapshot for %s: %w", ticket.DedupKey(), err)
	}
	metrics.TrendSnapshotsTotal.Inc()
	return nil
}

// Trends computes reports for every key with data inside the query period.
// Keys whose windows are empty for the period are omitted entirely.
func (a *Aggregator) Trends(ctx context.Context, period domain.TrendPeriod) (map[string]domain.TrendReport, error) {
	duration, err := period.Duration()
	if err != nil {
		return nil, err
	}
	since := a.clock.Now().Add(-duration)

	keys, err := a.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trend keys: %w", err)
	}

	reports := make(map[string]domain.TrendReport)
	for _, key := range keys {
		window, err := a.store.Window(ctx, key, since)
		if err != nil {
			return nil, fmt.Errorf("trend window for %s: %w", key, err)
		}
		if len(window) == 0 {
			continue
		}
		reports[key] = computeReport(window)
	}
	return reports, nil
}

// TrendFor computes the report for one key, with ok=false when the window
// holds no data for the period.
func (a *Aggregator) TrendFor(ctx context.Context, key string, period domain.TrendPeriod) (domain.TrendReport, bool, error) {
	duration, err := period.Duration()
	if err != nil {
		return domain.TrendReport{}, false, err
	}

	window, err := a.store.Window(ctx, key, a.clock.Now().Add(-duration))
	if err != nil {
		return domain.TrendReport{}, false, fmt.Errorf("trend window for %s: %w", key, err)
	}
	if len(window) == 0 {
		return domain.TrendReport{}, false, nil
	}
	return computeReport(window), true, nil
}

func computeReport(window []domain.TrendSnapshot) domain.TrendReport {
	report := domain.TrendReport{
		TotalTickets: len(window),
		WindowStart:  window[0].Timestamp,
		WindowEnd:    window[len(window)-1].Timestamp,
	}

	for _, snap := range window {
		report.AvgSentiment += snap.Score
		report.AvgPositive += snap.Positive
		report.AvgNegative += snap.Negative
		report.AvgNeutral += snap.Neutral
		report.AvgAnger += snap.Anger
		report.AvgFrustration += snap.Frustration

		switch {
		case snap.Score < -neutralBand:
			report.NegativeCount++
		case snap.Score > neutralBand:
			report.PositiveCount++
		default:
			report.NeutralCount++
		}
	}

	total := float64(len(window))
	report.AvgSentiment /= total
	report.AvgPositive /= total
	report.AvgNegative /= total
	report.AvgNeutral /= total
	report.AvgAnger /= total
	report.AvgFrustration /= total
	report.NegativePercentage = float64(report.NegativeCount) / total * 100
	report.PositivePercentage = float64(report.PositiveCount) / total * 100
	report.NeutralPercentage = float64(report.NeutralCount) / total * 100

	report.SentimentChange, report.Direction = direction(window)
	return report
}

// direction compares the first and last snapshot of the window. Fewer than
// two points cannot establish a direction and count as stable.
func direction(window []domain.TrendSnapshot) (float64, domain.TrendDirection) {
	if len(window) < 2 {
		return 0, domain.TrendStable
	}
	change := window[len(window)-1].Score - window[0].Score
	switch {
	case change > directionDelta:
		return change, domain.TrendImproving
	case change < -directionDelta:
		return change, domain.TrendDeclining
	default:
		return change, domain.TrendStable
	}
}
