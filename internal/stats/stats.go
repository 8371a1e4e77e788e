// Package stats implements the pure statistical functions behind sentinel's
// alert detectors: moving averages, deviation bounds, anomaly tests, and
// trend classification. No I/O, no shared state.
package stats

import (
	"fmt"
	"math"
)

// MovingAverage returns the arithmetic mean of the last window values.
// The second return is false when fewer than window values are available:
// a partial window is a defined absence, never a degraded estimate.
func MovingAverage(values []float64, window int) (float64, bool) {
	if window < 1 || len(values) < window {
		return 0, false
	}
	tail := values[len(values)-window:]
	var sum float64
	for _, v := range tail {
		sum += v
	}
	return sum / float64(window), true
}

// StdDev returns the sample standard deviation (n-1 divisor) of values.
// Returns 0 for fewer than 2 values; a single point has no spread.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

// DetectAnomaly reports whether current falls below the statistical lower
// bound of its recent history: avg - multiplier*stddev over the last window
// points. Disabled configurations and histories shorter than window always
// return false, so anomaly detection never fires on a cold start.
//
// The test is one-sided by business rule: the monitored series are health
// percentages, so only downward deviation is operationally significant.
// Upward spikes never flag. Equality with the bound is not an anomaly.
func DetectAnomaly(history []float64, current float64, window int, multiplier float64, enabled bool) bool {
	if !enabled || window < 1 || len(history) < window {
		return false
	}
	tail := history[len(history)-window:]
	avg, ok := MovingAverage(tail, window)
	if !ok {
		return false
	}
	sd := StdDev(tail)
	lowerBound := avg - multiplier*sd
	return current < lowerBound
}

// ComparisonResult describes how current relates to its recent average.
// Display/context only; never used to trigger alerts.
type ComparisonResult struct {
	DiffPercent float64 `json:"diff_percent"`
	Average     float64 `json:"average"`
	Label       string  `json:"label"`
}

// Comparison computes the percentage difference between current and the
// moving average over up to window points of history. Returns nil, false
// when history is empty.
func Comparison(current float64, history []float64, window int) (*ComparisonResult, bool) {
	if len(history) == 0 {
		return nil, false
	}
	n := window
	if n > len(history) {
		n = len(history)
	}
	avg, ok := MovingAverage(history, n)
	if !ok || avg == 0 {
		return nil, false
	}
	return &ComparisonResult{
		DiffPercent: (current - avg) / avg * 100,
		Average:     avg,
		Label:       fmt.Sprintf("média dos últimos %d períodos", n),
	}, true
}
