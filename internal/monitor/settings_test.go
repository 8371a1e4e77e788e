package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slametrics/sentinel/internal/datastore/entities"
)

func TestSettingsStoreDefaultsOnMissingRow(t *testing.T) {
	t.Parallel()
	store := NewSettingsStore(newMockSettingsRepo(), time.Minute, testLogger())

	got := store.Get(t.Context(), TypeSLAQueue)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.AnomalyWindowDays)
	assert.InDelta(t, 2.0, got.AnomalyStdDevMultiplier, 0.001)
	assert.Equal(t, 3, got.TrendConsecutivePeriods)
	assert.Equal(t, 2, got.AutoResolveConsecutiveReadings)
	assert.True(t, got.AnomalyEnabled)
	assert.True(t, got.TrendEnabled)
	assert.True(t, got.AutoResolveEnabled)
}

func TestSettingsStoreDefaultsOnFetchError(t *testing.T) {
	t.Parallel()
	repo := newMockSettingsRepo()
	repo.getErr = errors.New("connection refused")
	store := NewSettingsStore(repo, time.Minute, testLogger())

	got := store.Get(t.Context(), TypeMPS)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.AnomalyWindowDays, "fetch failures never block evaluation")
}

func TestSettingsStoreCachesReads(t *testing.T) {
	t.Parallel()
	repo := newMockSettingsRepo()
	require.NoError(t, repo.Upsert(t.Context(), DefaultSettings(TypeSLAQueue)))
	store := NewSettingsStore(repo, time.Minute, testLogger())

	store.Get(t.Context(), TypeSLAQueue)
	store.Get(t.Context(), TypeSLAQueue)
	store.Get(t.Context(), TypeSLAQueue)
	assert.Equal(t, 1, repo.getCalls)
}

func TestSettingsStoreSaveInvalidatesCache(t *testing.T) {
	t.Parallel()
	repo := newMockSettingsRepo()
	store := NewSettingsStore(repo, time.Minute, testLogger())

	// Prime the cache with defaults.
	assert.Equal(t, 7, store.Get(t.Context(), TypeSLAQueue).AnomalyWindowDays)

	updated := DefaultSettings(TypeSLAQueue)
	updated.AnomalyWindowDays = 14
	require.NoError(t, store.Save(t.Context(), updated))

	assert.Equal(t, 14, store.Get(t.Context(), TypeSLAQueue).AnomalyWindowDays,
		"a save must be visible to the next read")
}

func TestSettingsStoreSaveRejectsInvalid(t *testing.T) {
	t.Parallel()
	store := NewSettingsStore(newMockSettingsRepo(), time.Minute, testLogger())

	cases := []struct {
		name   string
		mutate func(*entities.MonitoringSettings)
	}{
		{"unknown type", func(s *entities.MonitoringSettings) { s.MonitoringType = "cpu" }},
		{"zero window", func(s *entities.MonitoringSettings) { s.AnomalyWindowDays = 0 }},
		{"negative multiplier", func(s *entities.MonitoringSettings) { s.AnomalyStdDevMultiplier = -1 }},
		{"zero trend periods", func(s *entities.MonitoringSettings) { s.TrendConsecutivePeriods = 0 }},
		{"zero auto-resolve readings", func(s *entities.MonitoringSettings) { s.AutoResolveConsecutiveReadings = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := DefaultSettings(TypeSLAQueue)
			tc.mutate(settings)
			assert.Error(t, store.Save(t.Context(), settings))
		})
	}
}

func TestValidMonitoringType(t *testing.T) {
	t.Parallel()
	for _, mt := range MonitoringTypes {
		assert.True(t, ValidMonitoringType(mt), mt)
	}
	assert.False(t, ValidMonitoringType("memoria"))
	assert.False(t, ValidMonitoringType(""))
}
