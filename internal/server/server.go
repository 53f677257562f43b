// Package server exposes the ops HTTP surface: health probes, build info,
// Prometheus metrics, and read-only views of team load and trend reports.
// Ticket intake and alert delivery are owned by the surrounding services,
// not this server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pulsecheck/watchdog/internal/config"
	"github.com/pulsecheck/watchdog/internal/domain"
	apperrors "github.com/pulsecheck/watchdog/internal/errors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const opsRateLimit = rate.Limit(20)

// watchdogService is the slice of the application layer the ops server reads.
type watchdogService interface {
	Trends(ctx context.Context, period domain.TrendPeriod) (map[string]domain.TrendReport, error)
	TrendFor(ctx context.Context, key string, period domain.TrendPeriod) (domain.TrendReport, bool, error)
	TeamStatus(ctx context.Context) ([]domain.TeamStatus, error)
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       watchdogService
	redis     *goredis.Client
	clock     clockwork.Clock
	startTime time.Time
}

// NewServer builds the ops server. redis may be nil when the watchdog runs
// on in-memory stores.
func NewServer(cfg *config.Config, app watchdogService, redis *goredis.Client, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(opsRateLimit)))
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		redis:     redis,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting ops server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
