package monitor

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/stats"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
}

// mockAlertRepo is a minimal in-memory AlertRepository.
type mockAlertRepo struct {
	mu     sync.Mutex
	nextID uint
	alerts []*entities.Alert

	insertErr     error
	insertAttempt int
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{nextID: 1}
}

func (m *mockAlertRepo) FindActive(_ context.Context, monitoringType, itemID, alertType string) (*entities.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if !a.Treated && a.MonitoringType == monitoringType && a.ItemID == itemID && a.AlertType == alertType {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAlertNotFound
}

func (m *mockAlertRepo) Insert(_ context.Context, alert *entities.Alert) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertAttempt++
	if m.insertErr != nil {
		return false, m.insertErr
	}
	// Emulate the unique active-key index.
	for _, a := range m.alerts {
		if !a.Treated && a.MonitoringType == alert.MonitoringType && a.ItemID == alert.ItemID && a.AlertType == alert.AlertType {
			return false, nil
		}
	}
	alert.ID = m.nextID
	m.nextID++
	cp := *alert
	m.alerts = append(m.alerts, &cp)
	return true, nil
}

func (m *mockAlertRepo) ActiveForItem(_ context.Context, monitoringType, itemID string) ([]entities.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Alert
	for _, a := range m.alerts {
		if !a.Treated && a.MonitoringType == monitoringType && a.ItemID == itemID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAlertRepo) ListActive(_ context.Context, filter repository.AlertFilter) ([]entities.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Alert
	for _, a := range m.alerts {
		if !a.Treated {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAlertRepo) ListHistory(_ context.Context, filter repository.AlertFilter) ([]entities.Alert, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Alert
	for _, a := range m.alerts {
		if a.Treated {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockAlertRepo) Treat(_ context.Context, id uint, comment string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.ID == id && !a.Treated {
			a.Treated = true
			a.TreatedAt = &at
			a.TreatComment = &comment
			a.ActiveKey = nil
			return nil
		}
	}
	return repository.ErrAlertNotFound
}

func (m *mockAlertRepo) UpdateCleanStreak(_ context.Context, id uint, streak int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.ID == id {
			a.CleanStreak = streak
			return nil
		}
	}
	return repository.ErrAlertNotFound
}

// activeCount returns the number of untreated alerts for a key.
func (m *mockAlertRepo) activeCount(monitoringType, itemID, alertType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, a := range m.alerts {
		if !a.Treated && a.MonitoringType == monitoringType && a.ItemID == itemID && a.AlertType == alertType {
			n++
		}
	}
	return n
}

// mockSettingsRepo is a minimal in-memory SettingsRepository.
type mockSettingsRepo struct {
	mu       sync.Mutex
	rows     map[string]*entities.MonitoringSettings
	getErr   error
	getCalls int
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{rows: make(map[string]*entities.MonitoringSettings)}
}

func (m *mockSettingsRepo) Get(_ context.Context, monitoringType string) (*entities.MonitoringSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.rows[monitoringType]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrSettingsNotFound
}

func (m *mockSettingsRepo) Upsert(_ context.Context, settings *entities.MonitoringSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.rows[settings.MonitoringType] = &cp
	return nil
}

// mockThresholdRepo is a minimal in-memory ThresholdRepository.
type mockThresholdRepo struct {
	rows map[string]*entities.ItemThreshold
}

func newMockThresholdRepo() *mockThresholdRepo {
	return &mockThresholdRepo{rows: make(map[string]*entities.ItemThreshold)}
}

func (m *mockThresholdRepo) key(monitoringType, itemID string) string {
	return monitoringType + "|" + itemID
}

func (m *mockThresholdRepo) Get(_ context.Context, monitoringType, itemID string) (*entities.ItemThreshold, error) {
	if t, ok := m.rows[m.key(monitoringType, itemID)]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repository.ErrThresholdNotFound
}

func (m *mockThresholdRepo) Upsert(_ context.Context, threshold *entities.ItemThreshold) error {
	cp := *threshold
	m.rows[m.key(threshold.MonitoringType, threshold.ItemID)] = &cp
	return nil
}

// mockReadingRepo is a minimal in-memory ReadingRepository. Histories are
// stored most recent first, matching ListRecent's contract.
type mockReadingRepo struct {
	mu        sync.Mutex
	histories map[string][]entities.Reading
	listErr   error
}

func newMockReadingRepo() *mockReadingRepo {
	return &mockReadingRepo{histories: make(map[string][]entities.Reading)}
}

func (m *mockReadingRepo) key(monitoringType, itemID string) string {
	return monitoringType + "|" + itemID
}

// setHistory stores values newest first for an item, with synthetic daily
// timestamps.
func (m *mockReadingRepo) setHistory(monitoringType, itemID string, newestFirst ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	readings := make([]entities.Reading, 0, len(newestFirst))
	for i, v := range newestFirst {
		readings = append(readings, entities.Reading{
			MonitoringType: monitoringType,
			ItemID:         itemID,
			Timestamp:      now.Add(-time.Duration(i) * 24 * time.Hour),
			Value:          v,
		})
	}
	m.histories[m.key(monitoringType, itemID)] = readings
}

func (m *mockReadingRepo) ListRecent(_ context.Context, monitoringType, itemID string, limit int) ([]entities.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	readings := m.histories[m.key(monitoringType, itemID)]
	if limit > 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	return readings, nil
}

func (m *mockReadingRepo) ListItems(_ context.Context, monitoringType string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var items []string
	prefix := monitoringType + "|"
	for k := range m.histories {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			items = append(items, k[len(prefix):])
		}
	}
	return items, nil
}

func (m *mockReadingRepo) Insert(_ context.Context, reading *entities.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.key(reading.MonitoringType, reading.ItemID)
	m.histories[key] = append([]entities.Reading{*reading}, m.histories[key]...)
	return nil
}

// newTestEvaluator wires an Evaluator over the given mocks with the
// two-point trend strategy and no notification hook.
func newTestEvaluator(alerts *mockAlertRepo, thresholds *mockThresholdRepo, settingsRepo *mockSettingsRepo) *Evaluator {
	log := testLogger()
	store := NewSettingsStore(settingsRepo, time.Minute, log)
	persister := NewPersister(alerts, nil, log)
	return NewEvaluator(alerts, thresholds, store, persister, stats.TwoPointDetector{}, log)
}
