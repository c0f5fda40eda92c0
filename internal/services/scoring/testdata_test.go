package scoring

import "FxScore/internal/domain/models"

// sampleWindow is twenty sessions of volatility index closes, oldest first.
var sampleWindow = []float64{
	18.2, 19.1, 20.3, 21.5, 22.1, 23.0, 24.2, 25.1, 26.0, 24.8,
	23.5, 22.7, 21.9, 20.8, 19.6, 18.9, 17.8, 18.4, 19.2, 20.1,
}

// stressWindow climbs from 20 to 29.5 in half-point steps.
func stressWindow() []float64 {
	w := make([]float64, 0, 20)
	for v := 20.0; v < 30; v += 0.5 {
		w = append(w, v)
	}
	return w
}

func sampleVolatility() models.VolatilityObservation {
	return models.VolatilityObservation{Current: 22.5, TrailingWindow: sampleWindow}
}

func sampleCrossAsset() models.CrossAssetReturn {
	return models.CrossAssetReturn{EquityReturn: 1.2, SafeHavenReturn: -0.5, EquityPrice: 455, EquityMovingAverage20: 450}
}

func sampleVolatilityAt(current float64) models.VolatilityObservation {
	return models.VolatilityObservation{Current: current, TrailingWindow: sampleWindow}
}
