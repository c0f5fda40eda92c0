package scoring

import (
	"FxScore/internal/domain/models"
	domsvc "FxScore/internal/domain/service"
)

// Engine exposes the scoring functions through the domain service ports.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

var (
	_ domsvc.RegimeDetector  = (*Engine)(nil)
	_ domsvc.CurrencyScorer  = (*Engine)(nil)
	_ domsvc.SignalGenerator = (*Engine)(nil)
)

func (e *Engine) DetectRegime(vol models.VolatilityObservation, cross models.CrossAssetReturn, centralBankWeek bool) (models.MarketRegime, error) {
	return DetectRegime(vol, cross, centralBankWeek)
}

func (e *Engine) Weights(regime models.MarketRegime) models.FactorWeights {
	return Weights(regime)
}

func (e *Engine) ScoreCurrency(in models.CurrencyInput, vol models.VolatilityObservation, cross models.CrossAssetReturn, regime models.MarketRegime) (models.CompositeCurrencyScore, error) {
	return ScoreCurrency(in, vol, cross, regime)
}

func (e *Engine) GenerateSignal(a, b models.CompositeCurrencyScore) models.PairSignal {
	return GenerateSignal(a, b)
}

func (e *Engine) PairSignals(scores []models.CompositeCurrencyScore) []models.PairSignal {
	return RankSignals(PairSignals(scores))
}
