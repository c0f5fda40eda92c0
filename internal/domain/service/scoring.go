package service

import "FxScore/internal/domain/models"

// RegimeDetector classifies the market and resolves the regime's factor weights.
type RegimeDetector interface {
	DetectRegime(vol models.VolatilityObservation, cross models.CrossAssetReturn, centralBankWeek bool) (models.MarketRegime, error)
	Weights(regime models.MarketRegime) models.FactorWeights
}

// CurrencyScorer builds the composite score of one currency for a resolved regime.
type CurrencyScorer interface {
	ScoreCurrency(in models.CurrencyInput, vol models.VolatilityObservation, cross models.CrossAssetReturn, regime models.MarketRegime) (models.CompositeCurrencyScore, error)
}

// SignalGenerator derives pair signals from composite scores.
type SignalGenerator interface {
	GenerateSignal(a, b models.CompositeCurrencyScore) models.PairSignal
	// PairSignals covers every unordered pair, ranked by absolute differential.
	PairSignals(scores []models.CompositeCurrencyScore) []models.PairSignal
}
