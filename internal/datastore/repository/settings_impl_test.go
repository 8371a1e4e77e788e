package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

func TestSettingsRepository_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	_, err := repo.Get(t.Context(), "mps")
	require.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestSettingsRepository_UpsertCreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := t.Context()

	settings := &entities.MonitoringSettings{
		MonitoringType:                 "sla_fila",
		AnomalyEnabled:                 true,
		AnomalyWindowDays:              7,
		AnomalyStdDevMultiplier:        2.0,
		TrendEnabled:                   true,
		TrendConsecutivePeriods:        3,
		AutoResolveEnabled:             true,
		AutoResolveConsecutiveReadings: 2,
	}
	require.NoError(t, repo.Upsert(ctx, settings))

	got, err := repo.Get(ctx, "sla_fila")
	require.NoError(t, err)
	assert.Equal(t, 7, got.AnomalyWindowDays)
	assert.InDelta(t, 2.0, got.AnomalyStdDevMultiplier, 0.0001)

	// Upsert again with changed values; still one row per type.
	settings.AnomalyWindowDays = 14
	settings.TrendEnabled = false
	require.NoError(t, repo.Upsert(ctx, settings))

	got, err = repo.Get(ctx, "sla_fila")
	require.NoError(t, err)
	assert.Equal(t, 14, got.AnomalyWindowDays)
	assert.False(t, got.TrendEnabled)

	var count int64
	require.NoError(t, db.Model(&entities.MonitoringSettings{}).
		Where("tipo_monitoramento = ?", "sla_fila").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReadingRepository_ListRecentOrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReadingRepository(db)
	ctx := t.Context()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := range 10 {
		require.NoError(t, repo.Insert(ctx, &entities.Reading{
			MonitoringType: "mps",
			ItemID:         "acme",
			Timestamp:      base.Add(time.Duration(i) * 24 * time.Hour),
			Value:          90 + float64(i),
		}))
	}

	readings, err := repo.ListRecent(ctx, "mps", "acme", 3)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.InDelta(t, 99, readings[0].Value, 0.0001, "most recent first")
	assert.True(t, readings[0].Timestamp.After(readings[1].Timestamp))
	assert.True(t, readings[1].Timestamp.After(readings[2].Timestamp))
}

func TestReadingRepository_ListItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReadingRepository(db)
	ctx := t.Context()

	now := time.Now()
	for _, item := range []string{"globex", "acme", "acme", "initech"} {
		require.NoError(t, repo.Insert(ctx, &entities.Reading{
			MonitoringType: "mps", ItemID: item, Timestamp: now, Value: 95,
		}))
	}
	require.NoError(t, repo.Insert(ctx, &entities.Reading{
		MonitoringType: "sla_fila", ItemID: "suporte", Timestamp: now, Value: 95,
	}))

	items, err := repo.ListItems(ctx, "mps")
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex", "initech"}, items)
}

func TestThresholdRepository_GetAndUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThresholdRepository(db)
	ctx := t.Context()

	_, err := repo.Get(ctx, "mps", "acme")
	require.ErrorIs(t, err, ErrThresholdNotFound)

	require.NoError(t, repo.Upsert(ctx, &entities.ItemThreshold{
		MonitoringType:  "mps",
		ItemID:          "acme",
		AttentionTarget: 70,
		ExcellentTarget: 95,
	}))

	got, err := repo.Get(ctx, "mps", "acme")
	require.NoError(t, err)
	assert.InDelta(t, 70, got.AttentionTarget, 0.0001)

	// Override in place.
	require.NoError(t, repo.Upsert(ctx, &entities.ItemThreshold{
		MonitoringType:  "mps",
		ItemID:          "acme",
		AttentionTarget: 75,
		ExcellentTarget: 96,
	}))
	got, err = repo.Get(ctx, "mps", "acme")
	require.NoError(t, err)
	assert.InDelta(t, 75, got.AttentionTarget, 0.0001)
}
