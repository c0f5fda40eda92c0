package models

import "time"

// PositioningWeight is applied to the positioning factor in every regime,
// outside the four regime weights.
const PositioningWeight = 0.05

// FactorWeights are the regime-dependent factor multipliers. They sum to 1
// and are never renormalised with PositioningWeight.
type FactorWeights struct {
	RatePolicy     float64 `json:"rate_policy"`
	GrowthMomentum float64 `json:"growth_momentum"`
	RealRateEdge   float64 `json:"real_rate_edge"`
	RiskAppetite   float64 `json:"risk_appetite"`
}

func (w FactorWeights) Sum() float64 {
	return w.RatePolicy + w.GrowthMomentum + w.RealRateEdge + w.RiskAppetite
}

// CompositeCurrencyScore keeps every factor score next to the weighted total.
type CompositeCurrencyScore struct {
	Currency       string  `json:"currency"`
	RatePolicy     float64 `json:"rate_policy"`
	GrowthMomentum float64 `json:"growth_momentum"`
	RealRateEdge   float64 `json:"real_rate_edge"`
	RiskAppetite   float64 `json:"risk_appetite"`
	Positioning    float64 `json:"positioning"`
	TotalScore     float64 `json:"total_score"`
}

// Direction is the side of the A/B pair the signal favours.
type Direction string

const (
	DirectionLong    Direction = "LONG"  // buy A, sell B
	DirectionShort   Direction = "SHORT" // buy B, sell A
	DirectionNeutral Direction = "NEUTRAL"
)

type Strength string

const (
	StrengthVeryStrong Strength = "VERY_STRONG"
	StrengthStrong     Strength = "STRONG"
	StrengthModerate   Strength = "MODERATE"
	StrengthWeak       Strength = "WEAK"
	StrengthNeutral    Strength = "NEUTRAL"
)

type Confidence string

const (
	ConfidenceHigh       Confidence = "HIGH"
	ConfidenceMediumHigh Confidence = "MEDIUM_HIGH"
	ConfidenceMedium     Confidence = "MEDIUM"
	ConfidenceLowMedium  Confidence = "LOW_MEDIUM"
	ConfidenceLow        Confidence = "LOW"
)

// PairSignal is the trading bias derived from two composite scores.
type PairSignal struct {
	Pair              string     `json:"pair"`
	CurrencyA         string     `json:"currency_a"`
	CurrencyB         string     `json:"currency_b"`
	ScoreDifferential float64    `json:"score_differential"`
	Direction         Direction  `json:"direction"`
	Bias              string     `json:"bias"` // BUY_<A>_SELL_<B>, BUY_<B>_SELL_<A> or NEUTRAL
	Strength          Strength   `json:"strength"`
	Confidence        Confidence `json:"confidence"`
}

// ScoringResult is one complete pass over a snapshot.
type ScoringResult struct {
	Regime       MarketRegime             `json:"regime"`
	Weights      FactorWeights            `json:"weights"`
	Scores       []CompositeCurrencyScore `json:"scores"`
	Signals      []PairSignal             `json:"signals"`
	CalculatedAt time.Time                `json:"calculated_at"`
}

// Score looks a currency up in the result.
func (r *ScoringResult) Score(currency string) (CompositeCurrencyScore, bool) {
	if r == nil {
		return CompositeCurrencyScore{}, false
	}
	for _, s := range r.Scores {
		if s.Currency == currency {
			return s, true
		}
	}
	return CompositeCurrencyScore{}, false
}
