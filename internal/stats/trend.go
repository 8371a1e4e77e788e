package stats

// TrendDirection classifies the movement of a series at its newest point.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// CalculateTrend is a two-point comparison between the current value and
// the previous one. With no previous value the trend is stable. Strictly
// greater is up, strictly less is down, equal is stable.
func CalculateTrend(current float64, previous *float64) TrendDirection {
	if previous == nil {
		return TrendStable
	}
	switch {
	case current > *previous:
		return TrendUp
	case current < *previous:
		return TrendDown
	default:
		return TrendStable
	}
}

// DetectConsecutiveDrop reports whether the series history+[current] ends
// with consecutivePeriods strictly decreasing steps. Returns false when
// disabled or when history holds fewer than consecutivePeriods points.
func DetectConsecutiveDrop(history []float64, current float64, consecutivePeriods int, enabled bool) bool {
	if !enabled || consecutivePeriods < 1 || len(history) < consecutivePeriods {
		return false
	}
	series := make([]float64, 0, len(history)+1)
	series = append(series, history...)
	series = append(series, current)

	for i := len(series) - consecutivePeriods; i < len(series); i++ {
		if series[i] >= series[i-1] {
			return false
		}
	}
	return true
}

// TrendDetector is the strategy interface behind trend alerts. The
// evaluation cycle picks an implementation via the alerting.trend_detector
// config key: a cheap two-point comparison, or a stricter test that
// honors the configured consecutive periods.
type TrendDetector interface {
	// Detect classifies the trend given history (oldest-first, excluding
	// current) and the current value. enabled and consecutivePeriods come
	// from the per-type alert settings.
	Detect(history []float64, current float64, consecutivePeriods int, enabled bool) TrendDirection
}

// TwoPointDetector compares current against the single previous reading.
type TwoPointDetector struct{}

func (TwoPointDetector) Detect(history []float64, current float64, _ int, enabled bool) TrendDirection {
	if !enabled {
		return TrendStable
	}
	var previous *float64
	if len(history) > 0 {
		previous = &history[len(history)-1]
	}
	return CalculateTrend(current, previous)
}

// ConsecutiveDropDetector requires consecutivePeriods strictly decreasing
// steps before reporting a downward trend. It never reports up; anything
// short of a sustained drop is stable.
type ConsecutiveDropDetector struct{}

func (ConsecutiveDropDetector) Detect(history []float64, current float64, consecutivePeriods int, enabled bool) TrendDirection {
	if DetectConsecutiveDrop(history, current, consecutivePeriods, enabled) {
		return TrendDown
	}
	return TrendStable
}
