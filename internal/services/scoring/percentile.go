package scoring

import "FxScore/internal/domain/models"

// PercentileRank returns the share of series values at or below value, 0..100.
func PercentileRank(value float64, series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, ErrEmptyWindow
	}
	n := 0
	for _, v := range series {
		if v <= value {
			n++
		}
	}
	return float64(n) / float64(len(series)) * 100, nil
}

// VolatilityPercentile ranks the current reading inside its own trailing window.
func VolatilityPercentile(v models.VolatilityObservation) (float64, error) {
	return PercentileRank(v.Current, v.TrailingWindow)
}
