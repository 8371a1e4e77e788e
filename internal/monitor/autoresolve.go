package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/metrics"
	"github.com/slametrics/sentinel/internal/stats"
)

// autoResolve advances each of the item's active alerts toward automatic
// treatment. A reading is "clean" for an alert when the condition that
// raised it no longer holds:
//
//	limite:    current at or above the attention threshold
//	anomalia:  the anomaly detector reports no anomaly
//	tendencia: the configured trend detector reports no drop
//
// A clean reading increments the alert's persisted counter; a non-clean
// reading resets it. Reaching auto_resolve_consecutive_readings treats the
// alert with an auto-generated comment. Disabled auto-resolve leaves the
// counters untouched.
func (e *Evaluator) autoResolve(ctx context.Context, settings *entities.MonitoringSettings, status *ItemStatus) {
	if !settings.AutoResolveEnabled {
		return
	}

	active, err := e.alerts.ActiveForItem(ctx, status.MonitoringType, status.ItemID)
	if err != nil {
		e.log.Warn("failed to fetch active alerts for auto-resolve",
			logger.String("item", status.ItemID),
			logger.Error(err))
		return
	}

	for i := range active {
		alert := &active[i]
		if !e.isCleanFor(alert.AlertType, status) {
			if alert.CleanStreak != 0 {
				if err := e.alerts.UpdateCleanStreak(ctx, alert.ID, 0); err != nil {
					e.log.Warn("failed to reset clean streak", logger.Error(err))
				}
			}
			continue
		}

		streak := alert.CleanStreak + 1
		if streak < settings.AutoResolveConsecutiveReadings {
			if err := e.alerts.UpdateCleanStreak(ctx, alert.ID, streak); err != nil {
				e.log.Warn("failed to update clean streak", logger.Error(err))
			}
			continue
		}

		comment := fmt.Sprintf("resolvido automaticamente após %d leituras saudáveis consecutivas", streak)
		if err := e.alerts.Treat(ctx, alert.ID, comment, time.Now()); err != nil {
			e.log.Warn("failed to auto-resolve alert",
				logger.Uint64("alert_id", uint64(alert.ID)),
				logger.Error(err))
			continue
		}
		metrics.AlertsAutoResolved.WithLabelValues(alert.MonitoringType, alert.AlertType).Inc()
		e.log.Info("alert auto-resolved",
			logger.String("monitoring_type", alert.MonitoringType),
			logger.String("item", alert.ItemID),
			logger.String("alert_type", alert.AlertType),
			logger.Int("clean_readings", streak))
	}
}

// isCleanFor reports whether the just-evaluated reading clears the
// condition behind the given alert type.
func (e *Evaluator) isCleanFor(alertType string, status *ItemStatus) bool {
	switch alertType {
	case AlertTypeLimit:
		return !status.BelowThreshold
	case AlertTypeAnomaly:
		return !status.IsAnomaly
	case AlertTypeTrend:
		return status.alertTrend != stats.TrendDown
	default:
		return false
	}
}
