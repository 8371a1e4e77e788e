package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/metrics"
)

// Scheduler drives the live evaluation loop: one full cycle per poll
// interval plus manually triggered refreshes. Shutdown is deterministic via
// context cancellation; overlapping cycles are permitted (a manual refresh
// may race a scheduled tick) because the persister's dedup contract makes
// concurrent cycles safe.
type Scheduler struct {
	evaluator *Evaluator
	readings  repository.ReadingRepository
	interval  time.Duration
	limit     int
	log       logger.Logger

	refreshCh chan struct{}
	wg        sync.WaitGroup
}

// NewScheduler creates a Scheduler. limit caps how many readings are
// fetched per item each cycle.
func NewScheduler(evaluator *Evaluator, readings repository.ReadingRepository, interval time.Duration, limit int, log logger.Logger) *Scheduler {
	return &Scheduler{
		evaluator: evaluator,
		readings:  readings,
		interval:  interval,
		limit:     limit,
		log:       log,
		refreshCh: make(chan struct{}, 1),
	}
}

// Start launches the polling loop. It returns immediately; the loop stops
// when ctx is cancelled. Wait blocks until the loop has exited.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Evaluate once at startup rather than waiting a full interval.
		s.runAndLog(ctx)

		for {
			select {
			case <-ticker.C:
				s.runAndLog(ctx)
			case <-s.refreshCh:
				s.runAndLog(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Wait blocks until the polling loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Refresh requests an immediate cycle. Non-blocking; a refresh already
// pending absorbs the request.
func (s *Scheduler) Refresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) runAndLog(ctx context.Context) {
	if err := s.RunCycle(ctx); err != nil {
		metrics.CycleErrors.Inc()
		s.log.Error("evaluation cycle aborted", logger.Error(err))
	}
}

// RunCycle evaluates every item of every monitoring type once.
//
// Failure isolation follows the error taxonomy: history fetch failures are
// cycle-level — the batch aborts and is retried on the next tick, with no
// partial state to clean up since evaluation happens before any write for
// that item. Persistence failures inside an item are handled (logged,
// skipped) by the evaluator and never abort the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	start := time.Now()
	cycleID := uuid.NewString()
	log := s.log.With(logger.String("cycle_id", cycleID))

	var evaluated int
	for _, monitoringType := range MonitoringTypes {
		items, err := s.readings.ListItems(ctx, monitoringType)
		if err != nil {
			return fmt.Errorf("failed to list %s items: %w", monitoringType, err)
		}

		for _, itemID := range items {
			readings, err := s.readings.ListRecent(ctx, monitoringType, itemID, s.limit)
			if err != nil {
				return fmt.Errorf("failed to fetch history for %s/%s: %w", monitoringType, itemID, err)
			}
			if _, err := s.evaluator.EvaluateItem(ctx, monitoringType, itemID, readings); err != nil {
				// Item-level failures do not abort the cycle.
				log.Error("item evaluation failed",
					logger.String("monitoring_type", monitoringType),
					logger.String("item", itemID),
					logger.Error(err))
				continue
			}
			evaluated++
		}
	}

	metrics.CyclesTotal.Inc()
	metrics.CycleDuration.Observe(time.Since(start).Seconds())
	log.Info("evaluation cycle completed",
		logger.Int("items", evaluated),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}
