package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/metrics"
)

// AlertCandidate is a detected condition awaiting persistence.
type AlertCandidate struct {
	MonitoringType string
	ItemID         string
	AlertType      string
	Severity       string
	CurrentPercent float64
	// Context is marshalled to JSON and stored as the alert's opaque
	// contexto payload.
	Context any
}

// AlertCreatedFunc is invoked after a new alert row has been persisted.
// It is never called for deduplicated (already tracked) conditions.
type AlertCreatedFunc func(alert *entities.Alert)

// Persister performs the deduplicating alert write: at most one active
// alert per (monitoring type, item, alert type). Two hardenings close the
// check-then-insert race the naive pattern leaves open: check and insert
// run under a per-key lock, and the repository's unique active-key index
// rejects any duplicate a concurrent process slips past the lock.
type Persister struct {
	repo      repository.AlertRepository
	onCreated AlertCreatedFunc
	log       logger.Logger

	keyLocks   map[string]*sync.Mutex
	keyLocksMu sync.Mutex
}

// NewPersister creates a Persister. onCreated may be nil.
func NewPersister(repo repository.AlertRepository, onCreated AlertCreatedFunc, log logger.Logger) *Persister {
	return &Persister{
		repo:      repo,
		onCreated: onCreated,
		log:       log,
		keyLocks:  make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing check+insert for one alert key.
func (p *Persister) lockFor(key string) *sync.Mutex {
	p.keyLocksMu.Lock()
	defer p.keyLocksMu.Unlock()
	mu, ok := p.keyLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		p.keyLocks[key] = mu
	}
	return mu
}

// Persist applies the dedup contract to a candidate. When an active alert
// already exists for the key, nothing happens — the existing alert is not
// updated. Otherwise a new active alert is inserted with detected_at=now.
// Returns true when a new alert row was created.
//
// Transient insert failures get one bounded retry; persistent failures are
// returned so the caller can skip this item/alert-type and continue.
func (p *Persister) Persist(ctx context.Context, candidate *AlertCandidate) (bool, error) {
	key := repository.ActiveKey(candidate.MonitoringType, candidate.ItemID, candidate.AlertType)
	mu := p.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	_, err := p.repo.FindActive(ctx, candidate.MonitoringType, candidate.ItemID, candidate.AlertType)
	if err == nil {
		// Condition already tracked by an active alert.
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, err
	}

	alert := &entities.Alert{
		MonitoringType: candidate.MonitoringType,
		ItemID:         candidate.ItemID,
		AlertType:      candidate.AlertType,
		Severity:       candidate.Severity,
		CurrentPercent: candidate.CurrentPercent,
		Context:        marshalContext(candidate.Context, p.log),
		DetectedAt:     time.Now(),
	}

	created, err := p.repo.Insert(ctx, alert)
	if err != nil && !isContextError(err) {
		// Bounded retry for transient persistence failures. A cancelled or
		// expired context is not transient; retrying it cannot succeed.
		created, err = p.repo.Insert(ctx, alert)
	}
	if err != nil {
		metrics.PersistErrors.Inc()
		return false, err
	}
	if !created {
		// The unique index caught a concurrent writer; already tracked.
		return false, nil
	}

	metrics.AlertsCreated.WithLabelValues(candidate.MonitoringType, candidate.AlertType).Inc()
	p.log.Info("alert created",
		logger.String("monitoring_type", candidate.MonitoringType),
		logger.String("item", candidate.ItemID),
		logger.String("alert_type", candidate.AlertType),
		logger.String("severity", candidate.Severity),
		logger.Float64("percent", candidate.CurrentPercent))

	if p.onCreated != nil {
		p.onCreated(alert)
	}
	return true, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func marshalContext(ctx any, log logger.Logger) string {
	if ctx == nil {
		return "{}"
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		log.Error("failed to marshal alert context", logger.Error(err))
		return "{}"
	}
	return string(data)
}
