package scoring

import "FxScore/internal/domain/models"

// Per-currency constants. Every table is partial; lookups fall back to a
// neutral default for codes not listed.

// DefaultRateSensitivity applies to currencies missing from the sensitivity table.
const DefaultRateSensitivity = 0.5

var rateSensitivity = map[string]float64{
	"USD": 0.4,
	"EUR": 0.6,
	"GBP": 0.5,
	"JPY": 1.0,
	"AUD": 0.4,
	"CAD": 0.3,
	"CHF": 0.8,
}

// RateSensitivity is how strongly the currency reacts to a change in its policy path.
func RateSensitivity(currency string) float64 {
	if s, ok := rateSensitivity[currency]; ok {
		return s
	}
	return DefaultRateSensitivity
}

// RiskAffinity scales the cross-asset sentiment for one currency: RiskOn when
// equities lead, SafeHaven when the safe-haven asset does.
type RiskAffinity struct {
	RiskOn    float64 `json:"risk_on"`
	SafeHaven float64 `json:"safe_haven"`
}

var riskAffinity = map[string]RiskAffinity{
	"USD": {RiskOn: 0, SafeHaven: 0.3},
	"EUR": {RiskOn: 0.5, SafeHaven: 0},
	"GBP": {RiskOn: 0.3, SafeHaven: 0},
	"JPY": {RiskOn: 0, SafeHaven: 1.0},
	"AUD": {RiskOn: 1.0, SafeHaven: 0},
	"CAD": {RiskOn: 0.3, SafeHaven: 0},
	"CHF": {RiskOn: 0, SafeHaven: 0.8},
}

// RiskAffinityFor returns the zero affinity for unlisted currencies.
func RiskAffinityFor(currency string) RiskAffinity {
	return riskAffinity[currency]
}

// EmploymentMetric names the labour statistic a threshold is expressed in.
type EmploymentMetric string

const (
	MetricNonFarmPayrolls EmploymentMetric = "nfp"
	MetricRate            EmploymentMetric = "rate"
	MetricClaimantCount   EmploymentMetric = "count" // lower is better
	MetricJobsRatio       EmploymentMetric = "ratio"
)

type EmploymentThreshold struct {
	Strong float64          `json:"strong"`
	Weak   float64          `json:"weak"`
	Metric EmploymentMetric `json:"metric"`
}

var employmentThresholds = map[string]EmploymentThreshold{
	"USD": {Strong: 180, Weak: 100, Metric: MetricNonFarmPayrolls}, // thousands
	"EUR": {Strong: 0.3, Weak: -0.1, Metric: MetricRate},           // employment YoY %
	"GBP": {Strong: -20, Weak: 40, Metric: MetricClaimantCount},    // thousands
	"JPY": {Strong: 1.30, Weak: 1.25, Metric: MetricJobsRatio},
	"AUD": {Strong: 66.5, Weak: 66.0, Metric: MetricRate}, // participation %
	"CAD": {Strong: 62.5, Weak: 61.5, Metric: MetricRate},
}

// EmploymentThresholdFor reports false for currencies without a threshold.
func EmploymentThresholdFor(currency string) (EmploymentThreshold, bool) {
	t, ok := employmentThresholds[currency]
	return t, ok
}

// KnownCurrencies lists the codes with explicit sensitivity and affinity entries.
func KnownCurrencies() []string {
	return []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF"}
}

// Tables is a read-only copy of every per-currency constant.
type Tables struct {
	RateSensitivity        map[string]float64              `json:"rate_sensitivity"`
	DefaultRateSensitivity float64                         `json:"default_rate_sensitivity"`
	RiskAffinity           map[string]RiskAffinity         `json:"risk_affinity"`
	EmploymentThresholds   map[string]EmploymentThreshold  `json:"employment_thresholds"`
	RegimeWeights          map[string]models.FactorWeights `json:"regime_weights"`
	PositioningWeight      float64                         `json:"positioning_weight"`
}

func ConstantTables() Tables {
	t := Tables{
		RateSensitivity:        make(map[string]float64, len(rateSensitivity)),
		DefaultRateSensitivity: DefaultRateSensitivity,
		RiskAffinity:           make(map[string]RiskAffinity, len(riskAffinity)),
		EmploymentThresholds:   make(map[string]EmploymentThreshold, len(employmentThresholds)),
		RegimeWeights:          make(map[string]models.FactorWeights, len(models.Regimes)),
		PositioningWeight:      models.PositioningWeight,
	}
	for k, v := range rateSensitivity {
		t.RateSensitivity[k] = v
	}
	for k, v := range riskAffinity {
		t.RiskAffinity[k] = v
	}
	for k, v := range employmentThresholds {
		t.EmploymentThresholds[k] = v
	}
	for _, r := range models.Regimes {
		t.RegimeWeights[string(r)] = Weights(r)
	}
	return t
}
