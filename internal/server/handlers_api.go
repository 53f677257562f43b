package server

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/pulsecheck/watchdog/internal/domain"
	apperrors "github.com/pulsecheck/watchdog/internal/errors"
)

func (s *Server) handleTeams(c echo.Context) error {
	statuses, err := s.app.TeamStatus(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to read team status", err)
	}
	return c.JSON(200, map[string]any{"teams": statuses})
}

func (s *Server) handleTrends(c echo.Context) error {
	period, err := queryPeriod(c)
	if err != nil {
		return err
	}

	reports, err := s.app.Trends(c.Request().Context(), period)
	if err != nil {
		return apperrors.InternalError("failed to compute trends", err)
	}
	return c.JSON(200, map[string]any{
		"period": string(period),
		"trends": reports,
	})
}

func (s *Server) handleTrendForKey(c echo.Context) error {
	period, err := queryPeriod(c)
	if err != nil {
		return err
	}

	key := c.Param("key")
	report, ok, err := s.app.TrendFor(c.Request().Context(), key, period)
	if err != nil {
		return apperrors.InternalError("failed to compute trend", err)
	}
	if !ok {
		return apperrors.NotFoundError("no snapshots in window").WithContext("key", key)
	}
	return c.JSON(200, map[string]any{
		"key":    key,
		"period": string(period),
		"trend":  report,
	})
}

func queryPeriod(c echo.Context) (domain.TrendPeriod, error) {
	raw := c.QueryParam("period")
	if raw == "" {
		return domain.Period24h, nil
	}

	period := domain.TrendPeriod(raw)
	if _, err := period.Duration(); err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("unknown period %q", raw)).
			WithContext("allowed", []string{"1h", "6h", "24h"})
	}
	return period, nil
}
