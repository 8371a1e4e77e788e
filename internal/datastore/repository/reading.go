package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

// ReadingRepository supplies the ordered metric history the evaluation
// cycle consumes. It is the engine's MetricHistoryProvider.
type ReadingRepository interface {
	// ListRecent returns up to limit readings for one item, most recent
	// first. limit <= 0 returns the full history.
	ListRecent(ctx context.Context, monitoringType, itemID string, limit int) ([]entities.Reading, error)

	// ListItems returns the distinct item identifiers known for a
	// monitoring type.
	ListItems(ctx context.Context, monitoringType string) ([]string, error)

	// Insert records a new reading. Used by ingestion glue and tests.
	Insert(ctx context.Context, reading *entities.Reading) error
}

// readingRepository implements ReadingRepository.
type readingRepository struct {
	db *gorm.DB
}

// NewReadingRepository creates a new ReadingRepository.
func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &readingRepository{db: db}
}

// ListRecent returns readings for one item ordered most recent first.
func (r *readingRepository) ListRecent(ctx context.Context, monitoringType, itemID string, limit int) ([]entities.Reading, error) {
	var readings []entities.Reading
	query := r.db.WithContext(ctx).
		Where("tipo_monitoramento = ? AND identificador_item = ?", monitoringType, itemID).
		Order("registrado_em DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to list readings for %s/%s: %w", monitoringType, itemID, err)
	}
	return readings, nil
}

// ListItems returns the distinct item identifiers for a monitoring type.
func (r *readingRepository) ListItems(ctx context.Context, monitoringType string) ([]string, error) {
	var items []string
	err := r.db.WithContext(ctx).
		Model(&entities.Reading{}).
		Where("tipo_monitoramento = ?", monitoringType).
		Distinct().
		Order("identificador_item ASC").
		Pluck("identificador_item", &items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items for %s: %w", monitoringType, err)
	}
	return items, nil
}

// Insert records a new reading.
func (r *readingRepository) Insert(ctx context.Context, reading *entities.Reading) error {
	if err := r.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}
