package models

import "strings"

// MarketRegime classifies the prevailing market environment.
type MarketRegime string

const (
	RegimeRiskOff         MarketRegime = "RISK_OFF"
	RegimeRiskOn          MarketRegime = "RISK_ON"
	RegimeNeutral         MarketRegime = "NEUTRAL"
	RegimeCentralBankWeek MarketRegime = "CENTRAL_BANK_WEEK"
)

// Regimes lists every regime in table order.
var Regimes = []MarketRegime{RegimeRiskOff, RegimeRiskOn, RegimeCentralBankWeek, RegimeNeutral}

// ParseRegime is case-insensitive; anything unrecognised is NEUTRAL.
func ParseRegime(s string) MarketRegime {
	r := MarketRegime(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RegimeRiskOff, RegimeRiskOn, RegimeCentralBankWeek, RegimeNeutral:
		return r
	}
	return RegimeNeutral
}

// IsRegime reports whether s names a regime, ignoring case and surrounding space.
func IsRegime(s string) bool {
	switch MarketRegime(strings.ToUpper(strings.TrimSpace(s))) {
	case RegimeRiskOff, RegimeRiskOn, RegimeCentralBankWeek, RegimeNeutral:
		return true
	}
	return false
}

func (r MarketRegime) String() string { return string(r) }

// VolatilityObservation is the current volatility index level and its
// trailing window, oldest first. The window must be non-empty.
type VolatilityObservation struct {
	Current        float64   `json:"current" yaml:"current"`
	TrailingWindow []float64 `json:"trailing_window" yaml:"trailing_window"`
}

// CrossAssetReturn holds same-period returns (percent) for a broad equity
// index and a safe-haven asset, plus the equity level against its 20-period average.
type CrossAssetReturn struct {
	EquityReturn          float64 `json:"equity_return" yaml:"equity_return"`
	SafeHavenReturn       float64 `json:"safe_haven_return" yaml:"safe_haven_return"`
	EquityPrice           float64 `json:"equity_price" yaml:"equity_price"`
	EquityMovingAverage20 float64 `json:"equity_ma20" yaml:"equity_ma20"`
}

// MarketSeries carries raw closing prices, oldest first, from which the
// volatility observation and cross-asset returns are derived.
type MarketSeries struct {
	VolatilityIndex []float64 `json:"volatility_index" yaml:"volatility_index" validate:"required,min=2"`
	Equity          []float64 `json:"equity" yaml:"equity" validate:"required,min=2"`
	SafeHaven       []float64 `json:"safe_haven" yaml:"safe_haven" validate:"required,min=2"`
	Window          int       `json:"window" yaml:"window" default:"20" validate:"gte=1,lte=250"`
}
