// Package repository defines the persistence interfaces and their GORM
// implementations for sentinel's alerting engine.
package repository

import (
	"context"
	"time"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

// AlertRepository handles alert lookup, deduplicating insertion, and the
// treated-state lifecycle.
type AlertRepository interface {
	// FindActive returns the untreated alert for the given key, or
	// ErrAlertNotFound. Treated alerts never match.
	FindActive(ctx context.Context, monitoringType, itemID, alertType string) (*entities.Alert, error)

	// Insert writes a new alert row. Returns false with a nil error when a
	// concurrent writer already holds an active alert for the same key (the
	// unique active-key index rejected the row); the condition is then
	// already tracked and the insert is a no-op.
	Insert(ctx context.Context, alert *entities.Alert) (bool, error)

	// ActiveForItem returns all untreated alerts for one monitored item.
	ActiveForItem(ctx context.Context, monitoringType, itemID string) ([]entities.Alert, error)

	// ListActive returns untreated alerts matching the filter.
	ListActive(ctx context.Context, filter AlertFilter) ([]entities.Alert, error)

	// ListHistory returns treated alerts matching the filter, newest first,
	// with the total count for pagination.
	ListHistory(ctx context.Context, filter AlertFilter) ([]entities.Alert, int64, error)

	// Treat marks an alert treated with the given comment, clearing its
	// active key. Returns ErrAlertNotFound for unknown or already treated
	// alerts.
	Treat(ctx context.Context, id uint, comment string, at time.Time) error

	// UpdateCleanStreak stores the consecutive-clean-readings counter used
	// by auto-resolution.
	UpdateCleanStreak(ctx context.Context, id uint, streak int) error
}

// AlertFilter controls alert listing queries. Zero values mean "no filter".
type AlertFilter struct {
	MonitoringType string
	ItemID         string
	AlertType      string
	Limit          int
	Offset         int
}
