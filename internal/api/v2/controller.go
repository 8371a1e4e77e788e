package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/monitor"
)

// Controller exposes the alerting engine over HTTP: active alerts and
// history, per-type settings, per-item thresholds, the dashboard view and
// the manual refresh trigger.
type Controller struct {
	Group *echo.Group

	alerts     repository.AlertRepository
	readings   repository.ReadingRepository
	thresholds repository.ThresholdRepository
	settings   *monitor.SettingsStore
	evaluator  *monitor.Evaluator
	scheduler  *monitor.Scheduler
	log        logger.Logger
}

// NewController creates the API controller and registers all routes on e
// under /api/v2, plus the Prometheus endpoint at /metrics.
func NewController(
	e *echo.Echo,
	alerts repository.AlertRepository,
	readings repository.ReadingRepository,
	thresholds repository.ThresholdRepository,
	settings *monitor.SettingsStore,
	evaluator *monitor.Evaluator,
	scheduler *monitor.Scheduler,
	log logger.Logger,
) *Controller {
	c := &Controller{
		Group:      e.Group("/api/v2"),
		alerts:     alerts,
		readings:   readings,
		thresholds: thresholds,
		settings:   settings,
		evaluator:  evaluator,
		scheduler:  scheduler,
		log:        log,
	}

	e.Use(middleware.Recover())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", c.Health)

	c.initAlertRoutes()
	c.initSettingsRoutes()
	c.initDashboardRoutes()
	return c
}

// Health is a liveness probe.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError logs the error and returns a generic JSON error response,
// keeping internal details out of the wire.
func (c *Controller) handleError(ctx echo.Context, err error, message string, code int) error {
	c.log.Error(message, logger.Error(err))
	return ctx.JSON(code, map[string]string{"error": message})
}

// badRequest returns a 400 with the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

// parseUintParam parses a uint route parameter.
func parseUintParam(ctx echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// monitoringTypeParam validates the :type route parameter.
func monitoringTypeParam(ctx echo.Context) (string, bool) {
	mt := ctx.Param("type")
	return mt, monitor.ValidMonitoringType(mt)
}
