package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/alert"
	"github.com/pulsecheck/watchdog/internal/app"
	"github.com/pulsecheck/watchdog/internal/confidence"
	"github.com/pulsecheck/watchdog/internal/config"
	"github.com/pulsecheck/watchdog/internal/platform/logging"
	"github.com/pulsecheck/watchdog/internal/platform/retry"
	"github.com/pulsecheck/watchdog/internal/redis"
	"github.com/pulsecheck/watchdog/internal/risk"
	"github.com/pulsecheck/watchdog/internal/routing"
	"github.com/pulsecheck/watchdog/internal/server"
	"github.com/pulsecheck/watchdog/internal/trend"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() (*config.Config, config.Tables) {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	tables, err := config.LoadTables(cfg.RoutingConfigPath)
	if err != nil {
		log.Fatalf("Failed to load routing tables: %v", err)
	}
	return cfg, tables
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create Redis client", "error", err)
		os.Exit(1)
	}

	policy := retry.Policy{
		MaxAttempts:      5,
		InitialBackoff:   500 * time.Millisecond,
		RateLimitBackoff: 5 * time.Second,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Redis ping failed, retrying",
				"attempt", attempt, "backoff", backoff, "error", err)
		},
	}
	err = retry.DoVoid(ctx, policy,
		func(error) retry.Action { return retry.Retry },
		func() error { return client.Ping(ctx).Err() },
	)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg, tables := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Watchdog starting", "env", cfg.AppEnv, "port", cfg.Port)

	// Store selection: Redis when configured, in-memory otherwise.
	var (
		redisClient   *goredis.Client
		cooldownStore alert.CooldownStore
		trendStore    trend.Store
	)
	if cfg.RedisURL != "" {
		redisClient = setupRedis(context.Background(), cfg)
		defer func() { _ = redisClient.Close() }()
		cooldownStore = redis.NewCooldownStore(redisClient)
		trendStore = redis.NewTrendStore(redisClient, clock)
		slog.Info("Using Redis-backed stores")
	} else {
		cooldownStore = alert.NewMemoryCooldownStore(clock)
		trendStore = trend.NewMemoryStore(clock)
		slog.Info("Using in-memory stores")
	}

	detector := risk.NewLexiconDetector(
		tables.Lexicons.Churn,
		tables.Lexicons.Escalation,
		tables.Lexicons.Urgency,
	)
	thresholds := risk.DefaultThresholds()
	thresholds.Risk = tables.RiskThresholds
	assessor := risk.NewAssessor(detector, thresholds, clock)

	decider := alert.NewDecider(cooldownStore, cfg.SentimentThreshold, cfg.AlertCooldown)

	router, err := routing.NewRouter(
		tables.RouterOptions(),
		routing.NewMemoryCapacityStore(tables.Capacities),
		clock,
	)
	if err != nil {
		slog.Error("Failed to build escalation router", "error", err)
		os.Exit(1)
	}

	aggregator := trend.NewAggregator(trendStore, clock)

	appSvc := app.NewService(
		confidence.NewEvaluator(),
		assessor,
		decider,
		router,
		aggregator,
		clock,
		app.Options{
			MaxConcurrent:  cfg.MaxConcurrent,
			ProcessTimeout: cfg.ProcessTimeout,
		},
	)

	srv := server.NewServer(cfg, appSvc, redisClient, clock)
	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
