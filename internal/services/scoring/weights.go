package scoring

import "FxScore/internal/domain/models"

var (
	neutralWeights = models.FactorWeights{RatePolicy: 0.35, GrowthMomentum: 0.25, RealRateEdge: 0.30, RiskAppetite: 0.10}

	regimeWeights = map[models.MarketRegime]models.FactorWeights{
		models.RegimeRiskOff:         {RatePolicy: 0.45, GrowthMomentum: 0.15, RealRateEdge: 0.25, RiskAppetite: 0.15},
		models.RegimeRiskOn:          {RatePolicy: 0.30, GrowthMomentum: 0.35, RealRateEdge: 0.25, RiskAppetite: 0.10},
		models.RegimeCentralBankWeek: {RatePolicy: 0.55, GrowthMomentum: 0.15, RealRateEdge: 0.25, RiskAppetite: 0.05},
		models.RegimeNeutral:         neutralWeights,
	}
)

// Weights returns the factor weights for regime. Unknown regimes get the NEUTRAL set.
func Weights(regime models.MarketRegime) models.FactorWeights {
	if w, ok := regimeWeights[regime]; ok {
		return w
	}
	return neutralWeights
}
