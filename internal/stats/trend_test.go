package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTrend(t *testing.T) {
	prev := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		current  float64
		previous *float64
		want     TrendDirection
	}{
		{"no previous is stable", 7.5, nil, TrendStable},
		{"greater is up", 5, prev(3), TrendUp},
		{"less is down", 3, prev(5), TrendDown},
		{"equal is stable", 4, prev(4), TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTrend(tt.current, tt.previous))
		})
	}
}

func TestDetectConsecutiveDrop(t *testing.T) {
	t.Run("three strictly decreasing steps", func(t *testing.T) {
		assert.True(t, DetectConsecutiveDrop([]float64{95, 93, 90}, 88, 3, true))
	})

	t.Run("plateau breaks the streak", func(t *testing.T) {
		assert.False(t, DetectConsecutiveDrop([]float64{95, 90, 90}, 88, 3, true))
	})

	t.Run("only the last N steps matter", func(t *testing.T) {
		// Early rise is irrelevant when the last 2 steps drop.
		assert.True(t, DetectConsecutiveDrop([]float64{80, 95, 93}, 90, 2, true))
	})

	t.Run("insufficient history", func(t *testing.T) {
		assert.False(t, DetectConsecutiveDrop([]float64{95, 93}, 90, 3, true))
	})

	t.Run("disabled", func(t *testing.T) {
		assert.False(t, DetectConsecutiveDrop([]float64{95, 93, 90}, 88, 3, false))
	})
}

func TestTwoPointDetector(t *testing.T) {
	var d TwoPointDetector

	assert.Equal(t, TrendDown, d.Detect([]float64{90, 85}, 80, 3, true))
	assert.Equal(t, TrendUp, d.Detect([]float64{80}, 85, 3, true))
	assert.Equal(t, TrendStable, d.Detect(nil, 85, 3, true))
	assert.Equal(t, TrendStable, d.Detect([]float64{90}, 80, 3, false), "disabled detector reports stable")
}

func TestConsecutiveDropDetector(t *testing.T) {
	var d ConsecutiveDropDetector

	assert.Equal(t, TrendDown, d.Detect([]float64{95, 93, 90}, 88, 3, true))
	assert.Equal(t, TrendStable, d.Detect([]float64{95, 93, 94}, 88, 3, true))
	// A single drop is not enough for the strict detector even though the
	// two-point strategy would report down.
	assert.Equal(t, TrendStable, d.Detect([]float64{95, 96, 97}, 90, 3, true))
}
