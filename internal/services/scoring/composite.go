package scoring

import (
	"FxScore/internal/domain/models"
)

// ScoreCurrency computes every factor for one currency and weights them for regime.
func ScoreCurrency(in models.CurrencyInput, vol models.VolatilityObservation, cross models.CrossAssetReturn, regime models.MarketRegime) (models.CompositeCurrencyScore, error) {
	risk, err := RiskAppetiteScore(vol, cross, in.Currency)
	if err != nil {
		return models.CompositeCurrencyScore{}, err
	}

	s := models.CompositeCurrencyScore{
		Currency:       in.Currency,
		RatePolicy:     RatePolicyScore(in.Currency, in.RatePolicy),
		GrowthMomentum: GrowthMomentumScore(in.Currency, in.Growth),
		RealRateEdge:   RealRateEdgeScore(in.RealRate),
		RiskAppetite:   risk,
		Positioning:    PositioningScore(in.Positioning.PercentileRank),
	}
	s.TotalScore = Total(s, Weights(regime))
	return s, nil
}

// Total recombines factor scores with weights plus the fixed positioning weight.
func Total(s models.CompositeCurrencyScore, w models.FactorWeights) float64 {
	return s.RatePolicy*w.RatePolicy +
		s.GrowthMomentum*w.GrowthMomentum +
		s.RealRateEdge*w.RealRateEdge +
		s.RiskAppetite*w.RiskAppetite +
		s.Positioning*models.PositioningWeight
}
