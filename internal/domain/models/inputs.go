package models

// RatePolicyInput describes the expected path of a currency's policy rate.
type RatePolicyInput struct {
	CurrentRate     float64 `json:"current_rate" yaml:"current_rate"`
	TerminalRate    float64 `json:"terminal_rate" yaml:"terminal_rate"`
	HawkishMentions int     `json:"hawkish_mentions" yaml:"hawkish_mentions"`
	DovishMentions  int     `json:"dovish_mentions" yaml:"dovish_mentions"`
}

// EmploymentReading is the headline labour-market print. Its unit depends on
// the currency (payrolls change, unemployment rate, claimant count, ...).
type EmploymentReading struct {
	Value float64 `json:"value" yaml:"value"`
}

type GrowthMomentumInput struct {
	Employment EmploymentReading `json:"employment" yaml:"employment"`
	PMI        float64           `json:"pmi" yaml:"pmi"`
	GDPQoQ     float64           `json:"gdp_qoq" yaml:"gdp_qoq"`
}

type RealRateInput struct {
	TwoYearYield              float64 `json:"two_year_yield" yaml:"two_year_yield"`
	FiveYearFiveYearBreakeven float64 `json:"breakeven_5y5y" yaml:"breakeven_5y5y"`
}

// PositioningInput is a percentile rank in [0,100] of speculative positioning.
type PositioningInput struct {
	PercentileRank float64 `json:"percentile_rank" yaml:"percentile_rank"`
}

// CurrencyInput bundles every factor input for one currency.
type CurrencyInput struct {
	Currency    string              `json:"currency" yaml:"currency"`
	RatePolicy  RatePolicyInput     `json:"rate_policy" yaml:"rate_policy"`
	Growth      GrowthMomentumInput `json:"growth" yaml:"growth"`
	RealRate    RealRateInput       `json:"real_rate" yaml:"real_rate"`
	Positioning PositioningInput    `json:"positioning" yaml:"positioning"`
}

// CurrencyPatch is a partial update; nil sections keep their previous value.
type CurrencyPatch struct {
	RatePolicy  *RatePolicyInput     `json:"rate_policy,omitempty" yaml:"rate_policy,omitempty"`
	Growth      *GrowthMomentumInput `json:"growth,omitempty" yaml:"growth,omitempty"`
	RealRate    *RealRateInput       `json:"real_rate,omitempty" yaml:"real_rate,omitempty"`
	Positioning *PositioningInput    `json:"positioning,omitempty" yaml:"positioning,omitempty"`
}

// Apply returns a copy of in with the non-nil sections of p.
func (p CurrencyPatch) Apply(in CurrencyInput) CurrencyInput {
	if p.RatePolicy != nil {
		in.RatePolicy = *p.RatePolicy
	}
	if p.Growth != nil {
		in.Growth = *p.Growth
	}
	if p.RealRate != nil {
		in.RealRate = *p.RealRate
	}
	if p.Positioning != nil {
		in.Positioning = *p.Positioning
	}
	return in
}

func (p CurrencyPatch) Empty() bool {
	return p.RatePolicy == nil && p.Growth == nil && p.RealRate == nil && p.Positioning == nil
}
