package features

import (
	"fmt"
	"math"

	"FxScore/internal/domain/models"
)

// DefaultWindow is the trailing window length, in sessions.
const DefaultWindow = 20

// PercentReturn is the percent change from the second-to-last to the last close.
func PercentReturn(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 closes, got %d", models.ErrInvalidInput, len(closes))
	}
	prev, cur := closes[len(closes)-2], closes[len(closes)-1]
	if prev <= 0 {
		return 0, fmt.Errorf("%w: previous close %v is not positive", models.ErrInvalidInput, prev)
	}
	return (cur - prev) / prev * 100, nil
}

// SimpleMovingAverage averages the last n values.
func SimpleMovingAverage(values []float64, n int) (float64, error) {
	if n <= 0 || len(values) < n {
		return 0, fmt.Errorf("%w: moving average of %d needs %d values, got %d", models.ErrInvalidInput, n, n, len(values))
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n), nil
}

// TrailingWindow returns a copy of the n values before the last one, oldest
// first. Shorter series give everything they have before the last value.
func TrailingWindow(values []float64, n int) []float64 {
	if len(values) < 2 || n <= 0 {
		return nil
	}
	hist := values[:len(values)-1]
	if len(hist) > n {
		hist = hist[len(hist)-n:]
	}
	return append([]float64(nil), hist...)
}

// VolatilityFromSeries takes the last value as current and the n before it as the window.
func VolatilityFromSeries(series []float64, n int) (models.VolatilityObservation, error) {
	if err := finite("volatility", series); err != nil {
		return models.VolatilityObservation{}, err
	}
	window := TrailingWindow(series, n)
	if len(window) == 0 {
		return models.VolatilityObservation{}, models.ErrEmptyWindow
	}
	return models.VolatilityObservation{Current: series[len(series)-1], TrailingWindow: window}, nil
}

// CrossAssetFromSeries derives the latest returns of both closes series and
// the equity level against its DefaultWindow-period average.
func CrossAssetFromSeries(equity, safeHaven []float64) (models.CrossAssetReturn, error) {
	if err := finite("equity", equity); err != nil {
		return models.CrossAssetReturn{}, err
	}
	if err := finite("safe_haven", safeHaven); err != nil {
		return models.CrossAssetReturn{}, err
	}
	eqRet, err := PercentReturn(equity)
	if err != nil {
		return models.CrossAssetReturn{}, fmt.Errorf("equity: %w", err)
	}
	shRet, err := PercentReturn(safeHaven)
	if err != nil {
		return models.CrossAssetReturn{}, fmt.Errorf("safe haven: %w", err)
	}
	n := DefaultWindow
	if len(equity) < n {
		n = len(equity)
	}
	ma, err := SimpleMovingAverage(equity, n)
	if err != nil {
		return models.CrossAssetReturn{}, err
	}
	return models.CrossAssetReturn{
		EquityReturn:          eqRet,
		SafeHavenReturn:       shRet,
		EquityPrice:           equity[len(equity)-1],
		EquityMovingAverage20: ma,
	}, nil
}

// Market derives both market inputs from raw series in one call.
func Market(s models.MarketSeries) (models.VolatilityObservation, models.CrossAssetReturn, error) {
	n := s.Window
	if n <= 0 {
		n = DefaultWindow
	}
	vol, err := VolatilityFromSeries(s.VolatilityIndex, n)
	if err != nil {
		return models.VolatilityObservation{}, models.CrossAssetReturn{}, err
	}
	cross, err := CrossAssetFromSeries(s.Equity, s.SafeHaven)
	if err != nil {
		return models.VolatilityObservation{}, models.CrossAssetReturn{}, err
	}
	return vol, cross, nil
}

func finite(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d] is not a finite number", models.ErrInvalidInput, name, i)
		}
	}
	return nil
}
