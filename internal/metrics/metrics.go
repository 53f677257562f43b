// Package metrics defines the Prometheus collectors for the watchdog core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics
var (
	// PipelineRunsTotal counts processed tickets by outcome
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchdog_pipeline_runs_total",
			Help: "Total pipeline runs by status",
		},
		[]string{"status"},
	)

	// PipelineDuration tracks end-to-end pipeline latency in seconds
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watchdog_pipeline_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
)

// Alert metrics
var (
	// AlertsTotal counts alert decisions by severity and outcome
	// (triggered / suppressed / not_triggered)
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchdog_alerts_total",
			Help: "Alert decisions by severity and outcome",
		},
		[]string{"severity", "outcome"},
	)
)

// Escalation routing metrics
var (
	// EscalationsTotal counts routed escalations by team and risk level
	EscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchdog_escalations_total",
			Help: "Escalations routed by assigned team and risk level",
		},
		[]string{"team", "risk_level"},
	)

	// BackupFailoversTotal counts assignments that landed on a backup team
	BackupFailoversTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchdog_backup_failovers_total",
			Help: "Escalations rerouted to a backup team",
		},
	)

	// UnresolvedEscalationsTotal counts escalations with no team capacity left
	UnresolvedEscalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchdog_unresolved_escalations_total",
			Help: "Escalations left unresolved after the backup chain was exhausted",
		},
	)

	// PriorityOverridesTotal counts forced risk-level changes by reason
	PriorityOverridesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchdog_priority_overrides_total",
			Help: "Priority overrides applied during routing, by reason",
		},
		[]string{"reason"},
	)

	// TeamLoad tracks current concurrent assignments per team
	TeamLoad = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "watchdog_team_load_current",
			Help: "Current concurrent assignments per team",
		},
		[]string{"team"},
	)
)

// Trend metrics
var (
	// TrendSnapshotsTotal counts snapshots appended to trend windows
	TrendSnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchdog_trend_snapshots_total",
			Help: "Snapshots appended to trend windows",
		},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks Redis operations by command and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchdog_redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watchdog_redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchdog_redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks breaker transitions by component
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchdog_circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current breaker state
	// (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "watchdog_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
