package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
)

// DefaultSettings returns the hard-coded settings for a monitoring type.
// Every type has defaults so the engine never operates unconfigured.
func DefaultSettings(monitoringType string) *entities.MonitoringSettings {
	return &entities.MonitoringSettings{
		MonitoringType:                 monitoringType,
		AnomalyEnabled:                 true,
		AnomalyWindowDays:              7,
		AnomalyStdDevMultiplier:        2.0,
		TrendEnabled:                   true,
		TrendConsecutivePeriods:        3,
		AutoResolveEnabled:             true,
		AutoResolveConsecutiveReadings: 2,
	}
}

// SettingsStore reads and writes per monitoring-type alert settings.
// Reads fall back to defaults on any failure so a broken settings table can
// never block the evaluation cycle; recent reads are cached with a short TTL
// to keep each poll tick from hammering the settings table.
type SettingsStore struct {
	repo  repository.SettingsRepository
	cache *gocache.Cache
	log   logger.Logger
}

// NewSettingsStore creates a SettingsStore with the given cache TTL.
func NewSettingsStore(repo repository.SettingsRepository, cacheTTL time.Duration, log logger.Logger) *SettingsStore {
	return &SettingsStore{
		repo:  repo,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
		log:   log,
	}
}

// Get returns the settings for a monitoring type. Missing rows and fetch
// failures both resolve to the hard-coded defaults; failures are logged,
// never propagated.
func (s *SettingsStore) Get(ctx context.Context, monitoringType string) *entities.MonitoringSettings {
	if cached, found := s.cache.Get(monitoringType); found {
		return cached.(*entities.MonitoringSettings)
	}

	settings, err := s.repo.Get(ctx, monitoringType)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.log.Warn("settings fetch failed, using defaults",
				logger.String("monitoring_type", monitoringType),
				logger.Error(err))
		}
		settings = DefaultSettings(monitoringType)
	}

	s.cache.SetDefault(monitoringType, settings)
	return settings
}

// Save validates and upserts a settings row, then invalidates the cache
// entry so the next cycle sees the new values.
func (s *SettingsStore) Save(ctx context.Context, settings *entities.MonitoringSettings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return err
	}
	s.cache.Delete(settings.MonitoringType)
	return nil
}

// ErrInvalidSettings wraps every settings validation failure so callers
// can distinguish bad input from storage errors.
var ErrInvalidSettings = errors.New("invalid alert settings")

// IsValidationError reports whether err is a settings validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSettings)
}

// ValidateSettings enforces the settings invariants: window and period
// counts at least 1, multiplier non-negative, known monitoring type.
func ValidateSettings(settings *entities.MonitoringSettings) error {
	if !ValidMonitoringType(settings.MonitoringType) {
		return fmt.Errorf("%w: unknown monitoring type %q", ErrInvalidSettings, settings.MonitoringType)
	}
	if settings.AnomalyWindowDays < 1 {
		return fmt.Errorf("%w: anomaly window must be at least 1, got %d", ErrInvalidSettings, settings.AnomalyWindowDays)
	}
	if settings.AnomalyStdDevMultiplier < 0 {
		return fmt.Errorf("%w: anomaly stddev multiplier must be non-negative, got %g", ErrInvalidSettings, settings.AnomalyStdDevMultiplier)
	}
	if settings.TrendConsecutivePeriods < 1 {
		return fmt.Errorf("%w: trend consecutive periods must be at least 1, got %d", ErrInvalidSettings, settings.TrendConsecutivePeriods)
	}
	if settings.AutoResolveConsecutiveReadings < 1 {
		return fmt.Errorf("%w: auto-resolve readings must be at least 1, got %d", ErrInvalidSettings, settings.AutoResolveConsecutiveReadings)
	}
	return nil
}
