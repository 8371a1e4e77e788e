package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/monitor"
)

// initSettingsRoutes registers the per-type settings and per-item
// threshold endpoints.
func (c *Controller) initSettingsRoutes() {
	c.Group.GET("/settings/:type", c.GetSettings)
	c.Group.PUT("/settings/:type", c.UpdateSettings)
	c.Group.GET("/thresholds/:type/:item", c.GetThreshold)
	c.Group.PUT("/thresholds/:type/:item", c.UpsertThreshold)
}

// GetSettings returns the effective alert settings for a monitoring type.
// Types without a stored row resolve to the defaults, so this never 404s
// for a known type.
func (c *Controller) GetSettings(ctx echo.Context) error {
	mt, ok := monitoringTypeParam(ctx)
	if !ok {
		return badRequest(ctx, "Unknown monitoring type")
	}
	return ctx.JSON(http.StatusOK, c.settings.Get(ctx.Request().Context(), mt))
}

// UpdateSettings validates and stores the alert settings for a monitoring
// type. The type in the URL wins over any type in the body.
func (c *Controller) UpdateSettings(ctx echo.Context) error {
	mt, ok := monitoringTypeParam(ctx)
	if !ok {
		return badRequest(ctx, "Unknown monitoring type")
	}

	var settings entities.MonitoringSettings
	if err := ctx.Bind(&settings); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	settings.MonitoringType = mt

	if err := c.settings.Save(ctx.Request().Context(), &settings); err != nil {
		if monitor.IsValidationError(err) {
			return badRequest(ctx, err.Error())
		}
		return c.handleError(ctx, err, "Failed to save settings", http.StatusInternalServerError)
	}

	c.log.Info("alert settings updated", logger.String("monitoring_type", mt))
	return ctx.JSON(http.StatusOK, settings)
}

// GetThreshold returns the per-item threshold override, or the global
// defaults marked as such when no override exists.
func (c *Controller) GetThreshold(ctx echo.Context) error {
	mt, ok := monitoringTypeParam(ctx)
	if !ok {
		return badRequest(ctx, "Unknown monitoring type")
	}
	itemID := ctx.Param("item")

	threshold, err := c.thresholds.Get(ctx.Request().Context(), mt, itemID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ctx.JSON(http.StatusOK, map[string]any{
				"tipo_monitoramento": mt,
				"identificador_item": itemID,
				"meta_atencao":       monitor.DefaultAttentionTarget,
				"meta_excelente":     monitor.DefaultExcellentTarget,
				"padrao":             true,
			})
		}
		return c.handleError(ctx, err, "Failed to get threshold", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, threshold)
}

// UpsertThreshold creates or replaces the per-item threshold override.
func (c *Controller) UpsertThreshold(ctx echo.Context) error {
	mt, ok := monitoringTypeParam(ctx)
	if !ok {
		return badRequest(ctx, "Unknown monitoring type")
	}
	itemID := ctx.Param("item")

	var threshold entities.ItemThreshold
	if err := ctx.Bind(&threshold); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	threshold.MonitoringType = mt
	threshold.ItemID = itemID

	if threshold.AttentionTarget <= 0 || threshold.ExcellentTarget <= 0 {
		return badRequest(ctx, "Targets must be positive")
	}
	if threshold.AttentionTarget > threshold.ExcellentTarget {
		return badRequest(ctx, "Attention target cannot exceed the excellent target")
	}

	if err := c.thresholds.Upsert(ctx.Request().Context(), &threshold); err != nil {
		return c.handleError(ctx, err, "Failed to save threshold", http.StatusInternalServerError)
	}

	c.log.Info("item threshold updated",
		logger.String("monitoring_type", mt),
		logger.String("item", itemID),
		logger.Float64("attention", threshold.AttentionTarget),
		logger.Float64("excellent", threshold.ExcellentTarget))

	return ctx.JSON(http.StatusOK, threshold)
}
