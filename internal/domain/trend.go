package domain

import (
	"fmt"
	"time"
)

// TrendPeriod is a query window for trend statistics.
type TrendPeriod string

const (
	Period1h  TrendPeriod = "1h"
	Period6h  TrendPeriod = "6h"
	Period24h TrendPeriod = "24h"
)

// Duration converts the period to a time.Duration.
func (p TrendPeriod) Duration() (time.Duration, error) {
	switch p {
	case Period1h:
		return time.Hour, nil
	case Period6h:
		return 6 * time.Hour, nil
	case Period24h:
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown trend period %q", string(p))
	}
}

// TrendDirection summarizes how sentiment moved across a window.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendSnapshot is one recorded observation in a trend window.
type TrendSnapshot struct {
	Timestamp   time.Time      `json:"timestamp"`
	Score       float64        `json:"score"`
	Positive    float64        `json:"positive"`
	Negative    float64        `json:"negative"`
	Neutral     float64        `json:"neutral"`
	Anger       float64        `json:"anger"`
	Frustration float64        `json:"frustration"`
	Priority    TicketPriority `json:"priority"`
}

// TrendReport is the aggregate statistics for one key over one query window.
type TrendReport struct {
	TotalTickets       int            `json:"total_tickets"`
	AvgSentiment       float64        `json:"avg_sentiment"`
	AvgPositive        float64        `json:"avg_positive"`
	AvgNegative        float64        `json:"avg_negative"`
	AvgNeutral         float64        `json:"avg_neutral"`
	AvgAnger           float64        `json:"avg_anger"`
	AvgFrustration     float64        `json:"avg_frustration"`
	SentimentChange    float64        `json:"sentiment_change"`
	Direction          TrendDirection `json:"trend_direction"`
	PositiveCount      int            `json:"positive_count"`
	NegativeCount      int            `json:"negative_count"`
	NeutralCount       int            `json:"neutral_count"`
	PositivePercentage float64        `json:"positive_percentage"`
	NegativePercentage float64        `json:"negative_percentage"`
	NeutralPercentage  float64        `json:"neutral_percentage"`
	WindowStart        time.Time      `json:"window_start"`
	WindowEnd          time.Time      `json:"window_end"`
}
