package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

// SettingsRepository stores the per monitoring-type alert settings.
type SettingsRepository interface {
	// Get returns the settings row for a monitoring type, or
	// ErrSettingsNotFound. Callers are expected to fall back to defaults.
	Get(ctx context.Context, monitoringType string) (*entities.MonitoringSettings, error)

	// Upsert writes the settings row for its monitoring type, inserting or
	// updating in place. Idempotent; at most one row per type.
	Upsert(ctx context.Context, settings *entities.MonitoringSettings) error
}

// settingsRepository implements SettingsRepository.
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings row for a monitoring type.
func (r *settingsRepository) Get(ctx context.Context, monitoringType string) (*entities.MonitoringSettings, error) {
	var settings entities.MonitoringSettings
	err := r.db.WithContext(ctx).
		Where("tipo_monitoramento = ?", monitoringType).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings for %s: %w", monitoringType, err)
	}
	return &settings, nil
}

// Upsert saves the settings row, updating the existing one on conflict.
func (r *settingsRepository) Upsert(ctx context.Context, settings *entities.MonitoringSettings) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tipo_monitoramento"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"anomalia_habilitada",
				"anomalia_janela_dias",
				"anomalia_multiplicador",
				"tendencia_habilitada",
				"tendencia_periodos",
				"resolucao_auto_habilitada",
				"resolucao_auto_leituras",
				"updated_at",
			}),
		}).
		Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to upsert settings for %s: %w", settings.MonitoringType, err)
	}
	return nil
}
