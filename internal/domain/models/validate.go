package models

import (
	"fmt"
	"math"
)

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, name)
	}
	return nil
}

// Validate checks a snapshot before it is scored.
func (s MarketSnapshot) Validate() error {
	if len(s.Volatility.TrailingWindow) == 0 {
		return ErrEmptyWindow
	}
	if err := finite("volatility.current", s.Volatility.Current); err != nil {
		return err
	}
	for i, v := range s.Volatility.TrailingWindow {
		if err := finite(fmt.Sprintf("volatility.trailing_window[%d]", i), v); err != nil {
			return err
		}
	}
	for name, v := range map[string]float64{
		"cross_asset.equity_return":     s.CrossAsset.EquityReturn,
		"cross_asset.safe_haven_return": s.CrossAsset.SafeHavenReturn,
		"cross_asset.equity_price":      s.CrossAsset.EquityPrice,
		"cross_asset.equity_ma20":       s.CrossAsset.EquityMovingAverage20,
	} {
		if err := finite(name, v); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(s.Currencies))
	for _, c := range s.Currencies {
		if c.Currency == "" {
			return fmt.Errorf("%w: currency code is empty", ErrInvalidInput)
		}
		if _, dup := seen[c.Currency]; dup {
			return fmt.Errorf("%w: duplicate currency %s", ErrInvalidInput, c.Currency)
		}
		seen[c.Currency] = struct{}{}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks one currency's inputs.
func (c CurrencyInput) Validate() error {
	if c.RatePolicy.HawkishMentions < 0 || c.RatePolicy.DovishMentions < 0 {
		return fmt.Errorf("%w: %s mention counts must not be negative", ErrInvalidInput, c.Currency)
	}
	if p := c.Positioning.PercentileRank; p < 0 || p > 100 {
		return fmt.Errorf("%w: %s positioning percentile %v outside [0,100]", ErrInvalidInput, c.Currency, p)
	}
	for name, v := range map[string]float64{
		"current_rate":   c.RatePolicy.CurrentRate,
		"terminal_rate":  c.RatePolicy.TerminalRate,
		"employment":     c.Growth.Employment.Value,
		"pmi":            c.Growth.PMI,
		"gdp_qoq":        c.Growth.GDPQoQ,
		"two_year_yield": c.RealRate.TwoYearYield,
		"breakeven_5y5y": c.RealRate.FiveYearFiveYearBreakeven,
		"positioning":    c.Positioning.PercentileRank,
	} {
		if err := finite(c.Currency+"."+name, v); err != nil {
			return err
		}
	}
	return nil
}
