package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
)

const (
	maxHistoryLimit     = 200
	defaultHistoryLimit = 50
)

// initAlertRoutes registers the alert endpoints.
func (c *Controller) initAlertRoutes() {
	alerts := c.Group.Group("/alerts")
	alerts.GET("", c.ListActiveAlerts)
	alerts.GET("/history", c.ListAlertHistory)
	alerts.POST("/:id/treat", c.TreatAlert)
}

// ListActiveAlerts returns untreated alerts, optionally filtered by
// monitoring type, item and alert type query parameters.
func (c *Controller) ListActiveAlerts(ctx echo.Context) error {
	filter := repository.AlertFilter{
		MonitoringType: ctx.QueryParam("tipo"),
		ItemID:         ctx.QueryParam("item"),
		AlertType:      ctx.QueryParam("tipo_alerta"),
	}

	items, err := c.alerts.ListActive(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list active alerts", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"alerts": items,
		"count":  len(items),
	})
}

// ListAlertHistory returns treated alerts, most recently treated first,
// with limit/offset pagination.
func (c *Controller) ListAlertHistory(ctx echo.Context) error {
	filter := repository.AlertFilter{
		MonitoringType: ctx.QueryParam("tipo"),
		ItemID:         ctx.QueryParam("item"),
		AlertType:      ctx.QueryParam("tipo_alerta"),
		Limit:          defaultHistoryLimit,
	}

	if limitParam := ctx.QueryParam("limit"); limitParam != "" {
		v, err := strconv.Atoi(limitParam)
		if err == nil && v > 0 {
			filter.Limit = min(v, maxHistoryLimit)
		}
	}
	if offsetParam := ctx.QueryParam("offset"); offsetParam != "" {
		v, err := strconv.Atoi(offsetParam)
		if err == nil && v >= 0 {
			filter.Offset = v
		}
	}

	items, total, err := c.alerts.ListHistory(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list alert history", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"history": items,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// TreatAlert marks an active alert as treated with an operator comment.
// The comment is mandatory; treating an unknown or already treated alert
// returns 404.
func (c *Controller) TreatAlert(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid alert ID")
	}

	var body struct {
		Comment string `json:"comentario"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if strings.TrimSpace(body.Comment) == "" {
		return badRequest(ctx, "Treatment comment is required")
	}

	if err := c.alerts.Treat(ctx.Request().Context(), id, body.Comment, time.Now()); err != nil {
		if repository.IsNotFound(err) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Active alert not found"})
		}
		return c.handleError(ctx, err, "Failed to treat alert", http.StatusInternalServerError)
	}

	c.log.Info("alert treated",
		logger.Uint64("alert_id", uint64(id)),
		logger.String("comment", body.Comment))

	return ctx.JSON(http.StatusOK, map[string]any{"id": id, "tratado": true})
}
