package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCooldown = 15 * time.Minute

func newTestDecider(t *testing.T) (*Decider, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := NewMemoryCooldownStore(clock)
	return NewDecider(store, 0.3, testCooldown), clock
}

func angrySignal() domain.SentimentSignal {
	return domain.SentimentSignal{
		Score:    -0.6,
		Emotions: map[string]float64{domain.EmotionAnger: 0.6},
	}
}

func baseTicket() domain.Ticket {
	return domain.Ticket{
		ID:       "T-42",
		Channel:  "email",
		Source:   "zendesk",
		Priority: domain.PriorityNormal,
		Content:  "this product broke again and nobody answers my mails",
	}
}

func TestDecideTriggersOnNegativeSentiment(t *testing.T) {
	d, _ := newTestDecider(t)

	decision, err := d.Decide(context.Background(), domain.SentimentSignal{Score: -0.4}, baseTicket())

	require.NoError(t, err)
	assert.True(t, decision.ShouldAlert)
	assert.Equal(t, domain.SeverityMedium, decision.Severity)
	require.NotNil(t, decision.Content)
	assert.Contains(t, decision.Content.Message, "T-42")
}

func TestDecideTriggersOnEmotionAndPriority(t *testing.T) {
	d, _ := newTestDecider(t)

	frustrated := domain.SentimentSignal{Emotions: map[string]float64{domain.EmotionFrustration: 0.6}}
	decision, err := d.Decide(context.Background(), frustrated, baseTicket())
	require.NoError(t, err)
	assert.True(t, decision.ShouldAlert)

	urgent := baseTicket()
	urgent.Channel = "chat" // fresh dedup key
	urgent.Priority = domain.PriorityUrgent
	decision, err = d.Decide(context.Background(), domain.SentimentSignal{Score: 0.2}, urgent)
	require.NoError(t, err)
	assert.True(t, decision.ShouldAlert)
	assert.Equal(t, domain.SeverityCritical, decision.Severity)
}

func TestDecideNoConditionsMet(t *testing.T) {
	d, _ := newTestDecider(t)

	decision, err := d.Decide(context.Background(), domain.SentimentSignal{Score: 0.1}, baseTicket())

	require.NoError(t, err)
	assert.False(t, decision.ShouldAlert)
	assert.Equal(t, domain.ReasonNoConditions, decision.Reason)
	assert.Nil(t, decision.Content)
}

func TestDecideCooldownSuppressionIsSeverityBlind(t *testing.T) {
	d, clock := newTestDecider(t)
	ctx := context.Background()

	first, err := d.Decide(ctx, domain.SentimentSignal{Score: -0.4}, baseTicket())
	require.NoError(t, err)
	require.True(t, first.ShouldAlert)
	require.Equal(t, domain.SeverityMedium, first.Severity)

	// Second event for the same key is more severe but still suppressed.
	clock.Advance(time.Minute)
	critical := domain.SentimentSignal{
		Score:    -0.9,
		Emotions: map[string]float64{domain.EmotionAnger: 0.9},
	}
	second, err := d.Decide(ctx, critical, baseTicket())
	require.NoError(t, err)
	assert.False(t, second.ShouldAlert)
	assert.Equal(t, domain.ReasonCooldown, second.Reason)
}

func TestDecideCooldownExpires(t *testing.T) {
	d, clock := newTestDecider(t)
	ctx := context.Background()

	first, err := d.Decide(ctx, angrySignal(), baseTicket())
	require.NoError(t, err)
	require.True(t, first.ShouldAlert)

	clock.Advance(testCooldown + time.Second)

	second, err := d.Decide(ctx, angrySignal(), baseTicket())
	require.NoError(t, err)
	assert.True(t, second.ShouldAlert)
}

func TestDecideDistinctKeysDoNotInterfere(t *testing.T) {
	d, _ := newTestDecider(t)
	ctx := context.Background()

	first, err := d.Decide(ctx, angrySignal(), baseTicket())
	require.NoError(t, err)
	require.True(t, first.ShouldAlert)

	other := baseTicket()
	other.Source = "intercom"
	second, err := d.Decide(ctx, angrySignal(), other)
	require.NoError(t, err)
	assert.True(t, second.ShouldAlert)
}

func TestDecideKeyedUsesCallerKey(t *testing.T) {
	d, _ := newTestDecider(t)
	ctx := context.Background()

	first, err := d.DecideKeyed(ctx, "customer:7", angrySignal(), baseTicket())
	require.NoError(t, err)
	require.True(t, first.ShouldAlert)

	// Same channel+source, different caller key: not suppressed.
	second, err := d.Decide(ctx, angrySignal(), baseTicket())
	require.NoError(t, err)
	assert.True(t, second.ShouldAlert)

	// Same caller key: suppressed.
	third, err := d.DecideKeyed(ctx, "customer:7", angrySignal(), baseTicket())
	require.NoError(t, err)
	assert.False(t, third.ShouldAlert)
	assert.Equal(t, domain.ReasonCooldown, third.Reason)
}

type failingCooldownStore struct{}

func (failingCooldownStore) Acquire(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("store down")
}

func (failingCooldownStore) Reset(context.Context) error { return nil }

func TestDecideFailsOpenOnStoreError(t *testing.T) {
	d := NewDecider(failingCooldownStore{}, 0.3, testCooldown)

	decision, err := d.Decide(context.Background(), angrySignal(), baseTicket())

	require.NoError(t, err)
	assert.True(t, decision.ShouldAlert)
}

func TestSeverityClassification(t *testing.T) {
	cases := []struct {
		name   string
		signal domain.SentimentSignal
		ticket domain.Ticket
		want   domain.AlertSeverity
	}{
		{
			name:   "very negative sentiment is critical",
			signal: domain.SentimentSignal{Score: -0.8},
			want:   domain.SeverityCritical,
		},
		{
			name:   "strong anger is critical",
			signal: domain.SentimentSignal{Score: -0.4, Emotions: map[string]float64{domain.EmotionAnger: 0.8}},
			want:   domain.SeverityCritical,
		},
		{
			name:   "urgent priority is critical",
			signal: domain.SentimentSignal{Score: -0.4},
			ticket: domain.Ticket{Priority: domain.PriorityUrgent},
			want:   domain.SeverityCritical,
		},
		{
			name:   "moderate sentiment is high",
			signal: domain.SentimentSignal{Score: -0.6},
			want:   domain.SeverityHigh,
		},
		{
			name:   "frustration is high",
			signal: domain.SentimentSignal{Score: -0.35, Emotions: map[string]float64{domain.EmotionFrustration: 0.6}},
			want:   domain.SeverityHigh,
		},
		{
			name:   "mild sentiment is medium",
			signal: domain.SentimentSignal{Score: -0.4},
			want:   domain.SeverityMedium,
		},
		{
			name:   "weak signal is low",
			signal: domain.SentimentSignal{Score: -0.2},
			want:   domain.SeverityLow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, severityOf(tc.signal, tc.ticket))
		})
	}
}
