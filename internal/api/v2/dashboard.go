package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/monitor"
)

// dashboardHistoryLimit matches the live cycle's per-item fetch so the
// dashboard view agrees with what the scheduler computes.
const dashboardHistoryLimit = 90

// initDashboardRoutes registers the dashboard and manual-refresh
// endpoints.
func (c *Controller) initDashboardRoutes() {
	c.Group.GET("/dashboard/:type", c.GetDashboard)
	c.Group.POST("/evaluate", c.TriggerEvaluation)
}

// GetDashboard evaluates every item of a monitoring type and returns the
// merged statuses. Evaluation here goes through the same pipeline as the
// live cycle; the dedup contract makes the extra pass harmless.
func (c *Controller) GetDashboard(ctx echo.Context) error {
	mt, ok := monitoringTypeParam(ctx)
	if !ok {
		return badRequest(ctx, "Unknown monitoring type")
	}

	reqCtx := ctx.Request().Context()
	items, err := c.readings.ListItems(reqCtx, mt)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list items", http.StatusInternalServerError)
	}

	statuses := make([]*monitor.ItemStatus, 0, len(items))
	for _, itemID := range items {
		readings, err := c.readings.ListRecent(reqCtx, mt, itemID, dashboardHistoryLimit)
		if err != nil {
			return c.handleError(ctx, err, "Failed to fetch item history", http.StatusInternalServerError)
		}
		status, err := c.evaluator.EvaluateItem(reqCtx, mt, itemID, readings)
		if err != nil {
			c.log.Error("dashboard evaluation failed",
				logger.String("monitoring_type", mt),
				logger.String("item", itemID),
				logger.Error(err))
			continue
		}
		if status != nil {
			statuses = append(statuses, status)
		}
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"tipo_monitoramento": mt,
		"itens":              statuses,
		"count":              len(statuses),
	})
}

// TriggerEvaluation requests an immediate evaluation cycle from the
// scheduler. The request returns as soon as the cycle is queued.
func (c *Controller) TriggerEvaluation(ctx echo.Context) error {
	c.scheduler.Refresh()
	return ctx.JSON(http.StatusAccepted, map[string]string{"status": "evaluation scheduled"})
}
