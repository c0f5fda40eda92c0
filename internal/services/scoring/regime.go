package scoring

import (
	"fmt"

	"FxScore/internal/domain/models"
)

const (
	riskOffPercentile = 75.0
	riskOnPercentile  = 25.0
)

// DetectRegime classifies the market. A central bank week wins outright and
// the volatility window is not consulted.
func DetectRegime(vol models.VolatilityObservation, cross models.CrossAssetReturn, centralBankWeek bool) (models.MarketRegime, error) {
	if centralBankWeek {
		return models.RegimeCentralBankWeek, nil
	}

	p, err := VolatilityPercentile(vol)
	if err != nil {
		return "", fmt.Errorf("detect regime: %w", err)
	}

	if p > riskOffPercentile || cross.SafeHavenReturn > cross.EquityReturn {
		return models.RegimeRiskOff, nil
	}
	if p < riskOnPercentile && cross.EquityPrice > cross.EquityMovingAverage20 {
		return models.RegimeRiskOn, nil
	}
	return models.RegimeNeutral, nil
}
