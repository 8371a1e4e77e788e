package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

// alertRepository implements AlertRepository.
type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new AlertRepository.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

// ActiveKey builds the value stored in chave_ativa while an alert is open.
func ActiveKey(monitoringType, itemID, alertType string) string {
	return fmt.Sprintf("%s|%s|%s", monitoringType, itemID, alertType)
}

// FindActive returns the untreated alert for the given key.
func (r *alertRepository) FindActive(ctx context.Context, monitoringType, itemID, alertType string) (*entities.Alert, error) {
	var alert entities.Alert
	err := r.db.WithContext(ctx).
		Where("tipo_monitoramento = ? AND identificador_item = ? AND tipo_alerta = ? AND tratado = ?",
			monitoringType, itemID, alertType, false).
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to find active alert: %w", err)
	}
	return &alert, nil
}

// Insert writes a new alert row, populating its active key. A conflict on
// the active-key unique index means another writer created the active alert
// first; that is reported as created=false, not as an error.
func (r *alertRepository) Insert(ctx context.Context, alert *entities.Alert) (bool, error) {
	key := ActiveKey(alert.MonitoringType, alert.ItemID, alert.AlertType)
	alert.ActiveKey = &key
	alert.Treated = false

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chave_ativa"}},
			DoNothing: true,
		}).
		Create(alert)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert alert: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ActiveForItem returns all untreated alerts for one monitored item.
func (r *alertRepository) ActiveForItem(ctx context.Context, monitoringType, itemID string) ([]entities.Alert, error) {
	var alerts []entities.Alert
	err := r.db.WithContext(ctx).
		Where("tipo_monitoramento = ? AND identificador_item = ? AND tratado = ?", monitoringType, itemID, false).
		Order("detectado_em DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts for item: %w", err)
	}
	return alerts, nil
}

// ListActive returns untreated alerts matching the filter.
func (r *alertRepository) ListActive(ctx context.Context, filter AlertFilter) ([]entities.Alert, error) {
	var alerts []entities.Alert
	query := r.applyFilter(r.db.WithContext(ctx), filter).Where("tratado = ?", false)
	if err := query.Order("detectado_em DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	return alerts, nil
}

// ListHistory returns treated alerts matching the filter with pagination.
func (r *alertRepository) ListHistory(ctx context.Context, filter AlertFilter) ([]entities.Alert, int64, error) {
	var items []entities.Alert
	var total int64

	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&entities.Alert{}), filter).
		Where("tratado = ?", true)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count alert history: %w", err)
	}

	query := r.applyFilter(r.db.WithContext(ctx), filter).
		Where("tratado = ?", true).
		Order("tratado_em DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list alert history: %w", err)
	}
	return items, total, nil
}

func (r *alertRepository) applyFilter(query *gorm.DB, filter AlertFilter) *gorm.DB {
	if filter.MonitoringType != "" {
		query = query.Where("tipo_monitoramento = ?", filter.MonitoringType)
	}
	if filter.ItemID != "" {
		query = query.Where("identificador_item = ?", filter.ItemID)
	}
	if filter.AlertType != "" {
		query = query.Where("tipo_alerta = ?", filter.AlertType)
	}
	return query
}

// Treat marks an alert treated, clearing its active key so the unique index
// frees the slot for a future alert on the same key.
func (r *alertRepository) Treat(ctx context.Context, id uint, comment string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&entities.Alert{}).
		Where("id = ? AND tratado = ?", id, false).
		Updates(map[string]any{
			"tratado":               true,
			"tratado_em":            at,
			"comentario_tratamento": comment,
			"chave_ativa":           nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to treat alert %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// UpdateCleanStreak stores the consecutive-clean-readings counter.
func (r *alertRepository) UpdateCleanStreak(ctx context.Context, id uint, streak int) error {
	err := r.db.WithContext(ctx).Model(&entities.Alert{}).
		Where("id = ?", id).
		Update("leituras_limpas", streak).Error
	if err != nil {
		return fmt.Errorf("failed to update clean streak for alert %d: %w", id, err)
	}
	return nil
}
