package scoring

import (
	"fmt"
	"math"

	"FxScore/internal/domain/models"
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RatePolicyScore blends the expected rate move (80%) with central bank tone (20%).
// The differential term is not bounded.
func RatePolicyScore(currency string, in models.RatePolicyInput) float64 {
	differential := (in.TerminalRate - in.CurrentRate) * RateSensitivity(currency)
	tone := clamp(float64(in.HawkishMentions-in.DovishMentions)*0.1, -1, 1)
	return 0.8*differential + 0.2*tone
}

// EmploymentScore maps the reading onto [-1,1] between the currency's weak
// and strong thresholds. Currencies without thresholds score 0.
func EmploymentScore(currency string, r models.EmploymentReading) float64 {
	t, ok := EmploymentThresholdFor(currency)
	if !ok {
		return 0
	}
	v := r.Value
	if t.Metric == MetricClaimantCount {
		switch {
		case v <= t.Strong:
			return 1
		case v >= t.Weak:
			return -1
		}
		return (t.Strong-v)/(t.Strong-t.Weak)*2 - 1
	}
	switch {
	case v >= t.Strong:
		return 1
	case v <= t.Weak:
		return -1
	}
	return (v-t.Weak)/(t.Strong-t.Weak)*2 - 1
}

// ManufacturingScore steps the PMI: >52, [50,52], [48,50), [45,48), <45.
func ManufacturingScore(pmi float64) float64 {
	switch {
	case pmi > 52:
		return 1
	case pmi >= 50:
		return 0.5
	case pmi >= 48:
		return 0
	case pmi >= 45:
		return -0.5
	}
	return -1
}

// GDPScore steps quarter-on-quarter growth: >3, [2,3], [1,2), [0,1), <0.
func GDPScore(qoq float64) float64 {
	switch {
	case qoq > 3:
		return 1
	case qoq >= 2:
		return 0.5
	case qoq >= 1:
		return 0
	case qoq >= 0:
		return -0.5
	}
	return -1
}

// GrowthMomentumScore weights employment 40%, manufacturing 30%, GDP 30%.
func GrowthMomentumScore(currency string, in models.GrowthMomentumInput) float64 {
	return 0.4*EmploymentScore(currency, in.Employment) +
		0.3*ManufacturingScore(in.PMI) +
		0.3*GDPScore(in.GDPQoQ)
}

const realRateMultiplier = 1.5

// RealRate is the 2y yield less 5y5y breakeven inflation.
func RealRate(in models.RealRateInput) float64 {
	return in.TwoYearYield - in.FiveYearFiveYearBreakeven
}

// RealRateEdgeScore is unbounded.
func RealRateEdgeScore(in models.RealRateInput) float64 {
	return RealRate(in) * realRateMultiplier
}

// RealRateDifferential compares two currencies directly; it is not part of the composite.
func RealRateDifferential(a, b models.RealRateInput) float64 {
	return (RealRate(a) - RealRate(b)) * realRateMultiplier
}

// VolatilityRegimeScore steps the volatility percentile: <20, <40, <60, <80, rest.
func VolatilityRegimeScore(percentile float64) float64 {
	switch {
	case percentile < 20:
		return 1
	case percentile < 40:
		return 0.5
	case percentile < 60:
		return 0
	case percentile < 80:
		return -0.5
	}
	return -1
}

// CrossAssetSentiment is the clamped equity over safe-haven outperformance.
func CrossAssetSentiment(cross models.CrossAssetReturn) float64 {
	return clamp((cross.EquityReturn-cross.SafeHavenReturn)*2, -1, 1)
}

// RiskAppetiteScore weights the volatility regime 60% and the currency's
// reaction to cross-asset sentiment 40%.
func RiskAppetiteScore(vol models.VolatilityObservation, cross models.CrossAssetReturn, currency string) (float64, error) {
	p, err := VolatilityPercentile(vol)
	if err != nil {
		return 0, fmt.Errorf("risk appetite %s: %w", currency, err)
	}

	affinity := RiskAffinityFor(currency)
	sentiment := CrossAssetSentiment(cross)
	var adjusted float64
	if sentiment > 0 {
		adjusted = sentiment * affinity.RiskOn
	} else {
		adjusted = math.Abs(sentiment) * affinity.SafeHaven
	}
	return 0.6*VolatilityRegimeScore(p) + 0.4*adjusted, nil
}

// PositioningScore steps the positioning percentile: >90, >70, >30, >10, rest.
func PositioningScore(percentileRank float64) float64 {
	switch {
	case percentileRank > 90:
		return 1
	case percentileRank > 70:
		return 0.5
	case percentileRank > 30:
		return 0
	case percentileRank > 10:
		return -0.5
	}
	return -1
}
