package models

// MarketSnapshot is everything a full recalculation needs. Currency order is
// preserved in scores and drives pair orientation.
type MarketSnapshot struct {
	Volatility      VolatilityObservation `json:"volatility" yaml:"volatility"`
	CrossAsset      CrossAssetReturn      `json:"cross_asset" yaml:"cross_asset"`
	CentralBankWeek bool                  `json:"central_bank_week" yaml:"central_bank_week"`
	Currencies      []CurrencyInput       `json:"currencies" yaml:"currencies"`
}

// Clone deep-copies the slices so callers can mutate the result freely.
func (s MarketSnapshot) Clone() MarketSnapshot {
	out := s
	out.Volatility.TrailingWindow = append([]float64(nil), s.Volatility.TrailingWindow...)
	out.Currencies = append([]CurrencyInput(nil), s.Currencies...)
	return out
}

// Currency returns the index of code in Currencies, or -1.
func (s MarketSnapshot) Currency(code string) int {
	for i, c := range s.Currencies {
		if c.Currency == code {
			return i
		}
	}
	return -1
}
