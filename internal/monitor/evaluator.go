package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/metrics"
	"github.com/slametrics/sentinel/internal/stats"
)

// ItemStatus is the evaluated state of one monitored item, consumed by the
// dashboard endpoint. The *AlertOpen flags reflect the alert repository's
// current active set, not just this cycle's instantaneous computation, so a
// condition that is already tracked shows as still open even when the
// latest reading alone would not re-fire it.
type ItemStatus struct {
	MonitoringType  string                  `json:"tipo_monitoramento"`
	ItemID          string                  `json:"identificador_item"`
	Current         float64                 `json:"percentual_atual"`
	Previous        *float64                `json:"percentual_anterior,omitempty"`
	Variation       float64                 `json:"variacao"`
	Trend           stats.TrendDirection    `json:"tendencia"`
	IsAnomaly       bool                    `json:"anomalia"`
	Comparison      *stats.ComparisonResult `json:"comparacao,omitempty"`
	AttentionTarget float64                 `json:"meta_atencao"`
	ExcellentTarget float64                 `json:"meta_excelente"`
	BelowThreshold  bool                    `json:"abaixo_da_meta"`

	TrendAlertOpen   bool `json:"alerta_tendencia_aberto"`
	AnomalyAlertOpen bool `json:"alerta_anomalia_aberto"`
	LimitAlertOpen   bool `json:"alerta_limite_aberto"`

	// alertTrend is the configured trend strategy's verdict, which honors
	// trend_enabled. Trend above is unconditional display information; only
	// alertTrend may open or clear tendencia alerts.
	alertTrend stats.TrendDirection
}

// Evaluator runs the per-item evaluation pipeline: statistics over the
// reading history, alert persistence for each condition that fires, and
// auto-resolution of active alerts that have gone clean.
type Evaluator struct {
	alerts     repository.AlertRepository
	thresholds repository.ThresholdRepository
	settings   *SettingsStore
	persister  *Persister
	trend      stats.TrendDetector
	log        logger.Logger
}

// NewEvaluator creates an Evaluator using the given trend strategy.
func NewEvaluator(
	alerts repository.AlertRepository,
	thresholds repository.ThresholdRepository,
	settings *SettingsStore,
	persister *Persister,
	trend stats.TrendDetector,
	log logger.Logger,
) *Evaluator {
	return &Evaluator{
		alerts:     alerts,
		thresholds: thresholds,
		settings:   settings,
		persister:  persister,
		trend:      trend,
		log:        log,
	}
}

// EvaluateItem evaluates one monitored item given its reading history,
// ordered most recent first. Detected conditions are persisted (dedup
// applies), active alerts gone clean advance toward auto-resolution, and
// the returned status carries the merged display flags.
//
// Persistence failures for individual alert types are logged and skipped;
// they never abort the rest of the item's evaluation.
func (e *Evaluator) EvaluateItem(ctx context.Context, monitoringType, itemID string, readings []entities.Reading) (*ItemStatus, error) {
	if len(readings) == 0 {
		return nil, nil
	}
	metrics.ItemsEvaluated.WithLabelValues(monitoringType).Inc()

	settings := e.settings.Get(ctx, monitoringType)
	attention, excellent := e.resolveThresholds(ctx, monitoringType, itemID)

	current := readings[0].Value
	var previous *float64
	if len(readings) > 1 {
		previous = &readings[1].Value
	}

	// History excluding the current reading, oldest first, the orientation
	// the statistics functions expect.
	history := make([]float64, 0, len(readings)-1)
	for i := len(readings) - 1; i >= 1; i-- {
		history = append(history, readings[i].Value)
	}

	variation := 0.0
	if previous != nil {
		variation = current - *previous
	}

	// Display trend is always computed; trend_enabled gates alerting only.
	trendDir := stats.CalculateTrend(current, previous)
	alertTrend := e.trend.Detect(history, current, settings.TrendConsecutivePeriods, settings.TrendEnabled)
	isAnomaly := stats.DetectAnomaly(history, current, settings.AnomalyWindowDays, settings.AnomalyStdDevMultiplier, settings.AnomalyEnabled)
	comparison, _ := stats.Comparison(current, history, settings.AnomalyWindowDays)

	status := &ItemStatus{
		MonitoringType:  monitoringType,
		ItemID:          itemID,
		Current:         current,
		Previous:        previous,
		Variation:       variation,
		Trend:           trendDir,
		alertTrend:      alertTrend,
		IsAnomaly:       isAnomaly,
		Comparison:      comparison,
		AttentionTarget: attention,
		ExcellentTarget: excellent,
		BelowThreshold:  current < attention,
	}

	e.persistDetections(ctx, status, comparison)
	e.autoResolve(ctx, settings, status)
	e.mergeActiveFlags(ctx, status)

	return status, nil
}

// persistDetections writes one alert candidate per fired condition.
func (e *Evaluator) persistDetections(ctx context.Context, status *ItemStatus, comparison *stats.ComparisonResult) {
	if status.IsAnomaly {
		e.persist(ctx, &AlertCandidate{
			MonitoringType: status.MonitoringType,
			ItemID:         status.ItemID,
			AlertType:      AlertTypeAnomaly,
			Severity:       SeverityCritical,
			CurrentPercent: status.Current,
			Context:        map[string]any{"comparacao": comparison},
		})
	}

	if status.alertTrend == stats.TrendDown {
		e.persist(ctx, &AlertCandidate{
			MonitoringType: status.MonitoringType,
			ItemID:         status.ItemID,
			AlertType:      AlertTypeTrend,
			Severity:       SeverityWarning,
			CurrentPercent: status.Current,
			Context:        map[string]any{"tendencia": status.alertTrend, "variacao": status.Variation},
		})
	}

	if status.BelowThreshold {
		e.persist(ctx, &AlertCandidate{
			MonitoringType: status.MonitoringType,
			ItemID:         status.ItemID,
			AlertType:      AlertTypeLimit,
			Severity:       SeverityCritical,
			CurrentPercent: status.Current,
			Context: map[string]any{
				"motivo":       fmt.Sprintf("percentual %.2f abaixo da meta de atenção %.2f", status.Current, status.AttentionTarget),
				"meta_atencao": status.AttentionTarget,
			},
		})
	}
}

func (e *Evaluator) persist(ctx context.Context, candidate *AlertCandidate) {
	if _, err := e.persister.Persist(ctx, candidate); err != nil {
		e.log.Error("failed to persist alert, skipping",
			logger.String("monitoring_type", candidate.MonitoringType),
			logger.String("item", candidate.ItemID),
			logger.String("alert_type", candidate.AlertType),
			logger.Error(err))
	}
}

// resolveThresholds returns the item's attention/excellent targets: the
// per-item override when configured, else the global defaults. Lookup
// failures fall back to defaults and are logged, never fatal.
func (e *Evaluator) resolveThresholds(ctx context.Context, monitoringType, itemID string) (attention, excellent float64) {
	threshold, err := e.thresholds.Get(ctx, monitoringType, itemID)
	if err != nil {
		if !errors.Is(err, repository.ErrThresholdNotFound) {
			e.log.Warn("threshold lookup failed, using defaults",
				logger.String("monitoring_type", monitoringType),
				logger.String("item", itemID),
				logger.Error(err))
		}
		return DefaultAttentionTarget, DefaultExcellentTarget
	}
	return threshold.AttentionTarget, threshold.ExcellentTarget
}

// mergeActiveFlags overlays the repository's current active alert set onto
// the status for display.
func (e *Evaluator) mergeActiveFlags(ctx context.Context, status *ItemStatus) {
	active, err := e.alerts.ActiveForItem(ctx, status.MonitoringType, status.ItemID)
	if err != nil {
		e.log.Warn("failed to fetch active alerts for display merge",
			logger.String("item", status.ItemID),
			logger.Error(err))
		return
	}
	for i := range active {
		switch active[i].AlertType {
		case AlertTypeTrend:
			status.TrendAlertOpen = true
		case AlertTypeAnomaly:
			status.AnomalyAlertOpen = true
		case AlertTypeLimit:
			status.LimitAlertOpen = true
		}
	}
}
