package scoring

import (
	"math"
	"sort"

	"FxScore/internal/domain/models"
)

const biasThreshold = 0.5

type tier struct {
	min        float64
	strength   models.Strength
	confidence models.Confidence
}

var tiers = []tier{
	{2.0, models.StrengthVeryStrong, models.ConfidenceHigh},
	{1.5, models.StrengthStrong, models.ConfidenceMediumHigh},
	{1.0, models.StrengthModerate, models.ConfidenceMedium},
	{0.5, models.StrengthWeak, models.ConfidenceLowMedium},
}

// Tier maps an absolute score differential to strength and confidence.
func Tier(diff float64) (models.Strength, models.Confidence) {
	d := math.Abs(diff)
	for _, t := range tiers {
		if d >= t.min {
			return t.strength, t.confidence
		}
	}
	return models.StrengthNeutral, models.ConfidenceLow
}

// GenerateSignal compares a against b. The pair is labelled in argument order.
func GenerateSignal(a, b models.CompositeCurrencyScore) models.PairSignal {
	diff := a.TotalScore - b.TotalScore
	strength, confidence := Tier(diff)

	sig := models.PairSignal{
		Pair:              a.Currency + "/" + b.Currency,
		CurrencyA:         a.Currency,
		CurrencyB:         b.Currency,
		ScoreDifferential: diff,
		Direction:         models.DirectionNeutral,
		Bias:              "NEUTRAL",
		Strength:          strength,
		Confidence:        confidence,
	}
	switch {
	case diff > biasThreshold:
		sig.Direction = models.DirectionLong
		sig.Bias = "BUY_" + a.Currency + "_SELL_" + b.Currency
	case diff < -biasThreshold:
		sig.Direction = models.DirectionShort
		sig.Bias = "BUY_" + b.Currency + "_SELL_" + a.Currency
	}
	return sig
}

// PairSignals generates one signal per unordered pair, i before j in input order.
func PairSignals(scores []models.CompositeCurrencyScore) []models.PairSignal {
	if len(scores) < 2 {
		return []models.PairSignal{}
	}
	out := make([]models.PairSignal, 0, len(scores)*(len(scores)-1)/2)
	for i := 0; i < len(scores); i++ {
		for j := i + 1; j < len(scores); j++ {
			out = append(out, GenerateSignal(scores[i], scores[j]))
		}
	}
	return out
}

// RankSignals returns a copy ordered by absolute differential, largest first.
// Ties keep their input order.
func RankSignals(signals []models.PairSignal) []models.PairSignal {
	out := append([]models.PairSignal(nil), signals...)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].ScoreDifferential) > math.Abs(out[j].ScoreDifferential)
	})
	return out
}

// TopSignals returns the first n signals; n <= 0 or beyond the length returns all.
func TopSignals(ranked []models.PairSignal, n int) []models.PairSignal {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
