// Package app is the application layer. The Service is the only component
// that references multiple domain components and orchestrates the full
// ticket pipeline: normalize, evaluate confidence, assess risk, decide on
// alerting, route the escalation and record the trend snapshot.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/alert"
	"github.com/pulsecheck/watchdog/internal/confidence"
	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/metrics"
	"github.com/pulsecheck/watchdog/internal/platform/correlation"
	"github.com/pulsecheck/watchdog/internal/risk"
	"github.com/pulsecheck/watchdog/internal/routing"
	"github.com/pulsecheck/watchdog/internal/trend"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxConcurrent caps the number of tickets processed at once.
	DefaultMaxConcurrent = 10
	// DefaultProcessTimeout bounds one pipeline run end to end.
	DefaultProcessTimeout = 5 * time.Second
)

// Options tunes the pipeline limits. Zero values fall back to the defaults.
type Options struct {
	MaxConcurrent  int
	ProcessTimeout time.Duration
}

// Result is the full outcome of one pipeline run.
type Result struct {
	RunID       string                `json:"run_id"`
	TicketID    string                `json:"ticket_id"`
	Confidence  confidence.Evaluation `json:"confidence"`
	Risk        risk.Result           `json:"risk"`
	Alert       domain.AlertDecision  `json:"alert"`
	Plan        domain.EscalationPlan `json:"escalation"`
	ProcessedAt time.Time             `json:"processed_at"`
}

// Service wires the pipeline components together.
type Service struct {
	evaluator  *confidence.Evaluator
	assessor   *risk.Assessor
	decider    *alert.Decider
	router     *routing.Router
	aggregator *trend.Aggregator
	clock      clockwork.Clock
	sem        *semaphore.Weighted
	timeout    time.Duration
}

// NewService creates the application layer service.
func NewService(
	evaluator *confidence.Evaluator,
	assessor *risk.Assessor,
	decider *alert.Decider,
	router *routing.Router,
	aggregator *trend.Aggregator,
	clock clockwork.Clock,
	opts Options,
) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = DefaultProcessTimeout
	}
	return &Service{
		evaluator:  evaluator,
		assessor:   assessor,
		decider:    decider,
		router:     router,
		aggregator: aggregator,
		clock:      clock,
		sem:        semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		timeout:    opts.ProcessTimeout,
	}
}

// Process runs the full pipeline for one ticket. It blocks while the
// concurrency limit is saturated, then applies the per-run timeout. A run
// that times out before the alert decision commits no cooldown or capacity
// state. When every team in the backup chain is full the returned Result
// still carries the unresolved plan and the error wraps routing.ErrNoCapacity.
func (s *Service) Process(ctx context.Context, signal domain.SentimentSignal, ticket domain.Ticket) (Result, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("rejected").Inc()
		return Result{}, fmt.Errorf("acquire pipeline slot: %w", err)
	}
	defer s.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, ok := correlation.ID(ctx); !ok {
		ctx = correlation.WithID(ctx, correlation.NewID())
	}

	start := s.clock.Now()
	res, err := s.run(ctx, signal, ticket)
	metrics.PipelineDuration.Observe(s.clock.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, routing.ErrNoCapacity):
		metrics.PipelineRunsTotal.WithLabelValues("unresolved").Inc()
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		metrics.PipelineRunsTotal.WithLabelValues("timeout").Inc()
	default:
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
	}
	return res, err
}

func (s *Service) run(ctx context.Context, signal domain.SentimentSignal, ticket domain.Ticket) (Result, error) {
	res := Result{
		RunID:       uuid.NewString(),
		TicketID:    ticket.ID,
		ProcessedAt: s.clock.Now(),
	}

	signal = signal.Normalize()
	res.Confidence = s.evaluate(ctx, signal)
	res.Risk = s.assessor.Assess(signal, ticket)

	// Nothing has been committed yet: bail out cleanly on timeout so the
	// cooldown and capacity stores stay untouched.
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("pipeline run %s: %w", res.RunID, err)
	}

	decision, err := s.decider.Decide(ctx, signal, ticket)
	if err != nil {
		return res, fmt.Errorf("alert decision: %w", err)
	}
	res.Alert = decision

	plan, routeErr := s.router.Route(ctx, res.Risk.Assessment, res.Risk.PriorityScore, ticket)
	res.Plan = plan

	if err := s.aggregator.Record(ctx, ticket, signal); err != nil {
		// Trend recording is best effort; the decision already stands.
		slog.WarnContext(ctx, "trend recording failed",
			"run_id", res.RunID, "ticket_id", ticket.ID, "error", err)
	}

	if routeErr != nil {
		return res, fmt.Errorf("pipeline run %s: %w", res.RunID, routeErr)
	}
	return res, nil
}

// evaluate shields the pipeline from evaluator faults. A broken confidence
// calculation degrades to a middling score instead of aborting the run.
func (s *Service) evaluate(ctx context.Context, signal domain.SentimentSignal) (eval confidence.Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "confidence evaluation failed, degrading", "panic", r)
			eval = confidence.Degraded()
		}
	}()
	return s.evaluator.Evaluate(signal)
}

// Resolve releases a team slot once an escalated ticket has been handled.
func (s *Service) Resolve(ctx context.Context, team string) error {
	return s.router.Release(ctx, team)
}

// Trends returns the per-key trend reports for the given query window.
func (s *Service) Trends(ctx context.Context, period domain.TrendPeriod) (map[string]domain.TrendReport, error) {
	return s.aggregator.Trends(ctx, period)
}

// TrendFor returns the trend report for a single channel/source key.
func (s *Service) TrendFor(ctx context.Context, key string, period domain.TrendPeriod) (domain.TrendReport, bool, error) {
	return s.aggregator.TrendFor(ctx, key, period)
}

// TeamStatus reports the current load of every known team.
func (s *Service) TeamStatus(ctx context.Context) ([]domain.TeamStatus, error) {
	return s.router.Status(ctx)
}
