package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

// ThresholdRepository stores per-item attention/excellent target overrides.
type ThresholdRepository interface {
	// Get returns the override for one item, or ErrThresholdNotFound when
	// the item uses the monitoring type's global defaults.
	Get(ctx context.Context, monitoringType, itemID string) (*entities.ItemThreshold, error)

	// Upsert writes an override, replacing any existing one for the item.
	Upsert(ctx context.Context, threshold *entities.ItemThreshold) error
}

// thresholdRepository implements ThresholdRepository.
type thresholdRepository struct {
	db *gorm.DB
}

// NewThresholdRepository creates a new ThresholdRepository.
func NewThresholdRepository(db *gorm.DB) ThresholdRepository {
	return &thresholdRepository{db: db}
}

// Get returns the threshold override for one item.
func (r *thresholdRepository) Get(ctx context.Context, monitoringType, itemID string) (*entities.ItemThreshold, error) {
	var threshold entities.ItemThreshold
	err := r.db.WithContext(ctx).
		Where("tipo_monitoramento = ? AND identificador_item = ?", monitoringType, itemID).
		First(&threshold).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThresholdNotFound
		}
		return nil, fmt.Errorf("failed to get threshold for %s/%s: %w", monitoringType, itemID, err)
	}
	return &threshold, nil
}

// Upsert writes a threshold override, updating in place on conflict.
func (r *thresholdRepository) Upsert(ctx context.Context, threshold *entities.ItemThreshold) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tipo_monitoramento"}, {Name: "identificador_item"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"meta_atencao",
				"meta_excelente",
				"updated_at",
			}),
		}).
		Create(threshold).Error
	if err != nil {
		return fmt.Errorf("failed to upsert threshold for %s/%s: %w", threshold.MonitoringType, threshold.ItemID, err)
	}
	return nil
}
