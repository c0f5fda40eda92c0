package scoring

import (
	"testing"

	"FxScore/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatePolicyScore(t *testing.T) {
	usd := models.RatePolicyInput{CurrentRate: 5.25, TerminalRate: 5.50, HawkishMentions: 3, DovishMentions: 1}
	assert.InDelta(t, 0.12, RatePolicyScore("USD", usd), 1e-9)

	// unlisted currency uses the default sensitivity
	assert.InDelta(t, 0.4, RatePolicyScore("SEK", models.RatePolicyInput{CurrentRate: 1, TerminalRate: 2}), 1e-9)

	// tone saturates at +/-1
	assert.InDelta(t, 0.2, RatePolicyScore("USD", models.RatePolicyInput{HawkishMentions: 20}), 1e-9)
	assert.InDelta(t, -0.2, RatePolicyScore("USD", models.RatePolicyInput{DovishMentions: 15}), 1e-9)

	// the differential term is not bounded
	assert.InDelta(t, 8.0, RatePolicyScore("JPY", models.RatePolicyInput{CurrentRate: 0, TerminalRate: 10}), 1e-9)
}

func TestEmploymentScore(t *testing.T) {
	cases := []struct {
		currency string
		value    float64
		want     float64
	}{
		{"USD", 175, 0.875},
		{"USD", 140, 0},
		{"USD", 180, 1},
		{"USD", 250, 1},
		{"USD", 100, -1},
		{"USD", 50, -1},
		{"EUR", 0.1, 0},
		{"JPY", 1.30, 1},
		{"GBP", -20, 1},
		{"GBP", -50, 1},
		{"GBP", 40, -1},
		{"GBP", 10, 0},
		{"GBP", -10, -2.0 / 3.0},
		{"CHF", 5, 0},
		{"XYZ", 1000, 0},
	}
	for _, tc := range cases {
		got := EmploymentScore(tc.currency, models.EmploymentReading{Value: tc.value})
		assert.InDelta(t, tc.want, got, 1e-9, "%s %v", tc.currency, tc.value)
	}
}

func TestManufacturingScoreBoundaries(t *testing.T) {
	cases := map[float64]float64{
		55:    1,
		52.01: 1,
		52:    0.5,
		51.2:  0.5,
		50:    0.5,
		49.99: 0,
		48:    0,
		47.9:  -0.5,
		45:    -0.5,
		44.9:  -1,
	}
	for pmi, want := range cases {
		assert.Equal(t, want, ManufacturingScore(pmi), "pmi %v", pmi)
	}
}

func TestGDPScoreBoundaries(t *testing.T) {
	cases := map[float64]float64{
		3.1:  1,
		3:    0.5,
		2:    0.5,
		1.99: 0,
		1:    0,
		0.5:  -0.5,
		0:    -0.5,
		-0.1: -1,
	}
	for qoq, want := range cases {
		assert.Equal(t, want, GDPScore(qoq), "gdp %v", qoq)
	}
}

func TestGrowthMomentumScore(t *testing.T) {
	in := models.GrowthMomentumInput{Employment: models.EmploymentReading{Value: 175}, PMI: 51.2, GDPQoQ: 2.1}
	// 0.4*0.875 + 0.3*0.5 + 0.3*0.5
	assert.InDelta(t, 0.65, GrowthMomentumScore("USD", in), 1e-9)

	weak := models.GrowthMomentumInput{Employment: models.EmploymentReading{Value: 175}, PMI: 48.5, GDPQoQ: 1.5}
	assert.InDelta(t, 0.35, GrowthMomentumScore("USD", weak), 1e-9)
}

func TestRealRate(t *testing.T) {
	usd := models.RealRateInput{TwoYearYield: 4.5, FiveYearFiveYearBreakeven: 2.2}
	jpy := models.RealRateInput{TwoYearYield: 3.0, FiveYearFiveYearBreakeven: 2.0}

	assert.InDelta(t, 3.45, RealRateEdgeScore(usd), 1e-9)
	assert.InDelta(t, 1.95, RealRateDifferential(usd, jpy), 1e-9)
	assert.InDelta(t, -1.95, RealRateDifferential(jpy, usd), 1e-9)
	assert.Equal(t, 0.0, RealRateDifferential(usd, usd))
}

func TestRiskAppetiteScore(t *testing.T) {
	stress := models.VolatilityObservation{Current: 35, TrailingWindow: stressWindow()}
	flight := models.CrossAssetReturn{EquityReturn: -2.5, SafeHavenReturn: 1.5}

	cases := []struct {
		name     string
		vol      models.VolatilityObservation
		cross    models.CrossAssetReturn
		currency string
		want     float64
	}{
		// sample percentile 65 -> -0.5; sentiment clamps to +1
		{"risk-on currency in rally", sampleVolatility(), sampleCrossAsset(), "AUD", -0.3 + 0.4},
		{"safe haven in rally", sampleVolatility(), sampleCrossAsset(), "JPY", -0.3},
		{"safe haven in flight", stress, flight, "JPY", -0.6 + 0.4},
		{"partial safe haven in flight", stress, flight, "USD", -0.6 + 0.4*0.3},
		{"risk-on currency in flight", stress, flight, "AUD", -0.6},
		{"unlisted currency keeps volatility part", stress, flight, "SEK", -0.6},
		{"flat sentiment", sampleVolatility(), models.CrossAssetReturn{EquityReturn: 1, SafeHavenReturn: 1}, "CHF", -0.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RiskAppetiteScore(tc.vol, tc.cross, tc.currency)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}

	_, err := RiskAppetiteScore(models.VolatilityObservation{}, flight, "USD")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVolatilityRegimeScore(t *testing.T) {
	cases := map[float64]float64{0: 1, 19.9: 1, 20: 0.5, 40: 0, 60: -0.5, 79.9: -0.5, 80: -1, 100: -1}
	for p, want := range cases {
		assert.Equal(t, want, VolatilityRegimeScore(p), "percentile %v", p)
	}
}

func TestPositioningScore(t *testing.T) {
	cases := map[float64]float64{100: 1, 90.1: 1, 90: 0.5, 71: 0.5, 70: 0, 50: 0, 30: -0.5, 11: -0.5, 10: -1, 0: -1}
	for p, want := range cases {
		assert.Equal(t, want, PositioningScore(p), "percentile %v", p)
	}
}

func TestTablesFallBack(t *testing.T) {
	assert.Equal(t, DefaultRateSensitivity, RateSensitivity("NZD"))
	assert.Equal(t, 1.0, RateSensitivity("JPY"))
	assert.Equal(t, RiskAffinity{}, RiskAffinityFor("NZD"))
	assert.Equal(t, RiskAffinity{RiskOn: 0, SafeHaven: 0.8}, RiskAffinityFor("CHF"))
	_, ok := EmploymentThresholdFor("CHF")
	assert.False(t, ok)
}
