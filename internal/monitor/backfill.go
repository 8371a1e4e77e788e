package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
)

// backfillHistoryLimit bounds the readings considered per item: the two
// most recent (current and previous) plus the seven prior points the
// default anomaly window needs.
const backfillHistoryLimit = 9

// Backfiller reconstructs the current alert state of every item from its
// stored history. It walks each item's readings newest first and evaluates
// only the latest reading against its recent window, so it yields at most
// one alert per (item, alert type) — the present state, never a timeline
// of past transitions. Runs as a one-shot pass, not concurrently with the
// live scheduler.
type Backfiller struct {
	evaluator *Evaluator
	readings  repository.ReadingRepository
	log       logger.Logger
}

// NewBackfiller creates a Backfiller.
func NewBackfiller(evaluator *Evaluator, readings repository.ReadingRepository, log logger.Logger) *Backfiller {
	return &Backfiller{
		evaluator: evaluator,
		readings:  readings,
		log:       log,
	}
}

// Run performs the backfill pass over all monitoring types. The dedup
// contract is identical to the live path, so re-running backfill, or
// running it over items the live path already alerted on, creates no
// duplicates.
func (b *Backfiller) Run(ctx context.Context) error {
	start := time.Now()
	var evaluated int

	for _, monitoringType := range MonitoringTypes {
		items, err := b.readings.ListItems(ctx, monitoringType)
		if err != nil {
			return fmt.Errorf("backfill failed to list %s items: %w", monitoringType, err)
		}

		for _, itemID := range items {
			readings, err := b.readings.ListRecent(ctx, monitoringType, itemID, backfillHistoryLimit)
			if err != nil {
				return fmt.Errorf("backfill failed to fetch history for %s/%s: %w", monitoringType, itemID, err)
			}
			if _, err := b.evaluator.EvaluateItem(ctx, monitoringType, itemID, readings); err != nil {
				b.log.Error("backfill evaluation failed",
					logger.String("monitoring_type", monitoringType),
					logger.String("item", itemID),
					logger.Error(err))
				continue
			}
			evaluated++
		}
	}

	b.log.Info("backfill completed",
		logger.Int("items", evaluated),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}
