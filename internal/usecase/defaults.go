package usecase

import "FxScore/internal/domain/models"

// DefaultCurrencies is the universe a fresh workspace starts with.
var DefaultCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF"}

// DefaultTopSignals is how many signals TopSignals returns when asked for none.
const DefaultTopSignals = 5

// DefaultCurrencyInput is the placeholder reading for a currency nobody has updated yet.
func DefaultCurrencyInput(currency string) models.CurrencyInput {
	return models.CurrencyInput{
		Currency: currency,
		RatePolicy: models.RatePolicyInput{
			CurrentRate:     5.0,
			TerminalRate:    5.25,
			HawkishMentions: 2,
			DovishMentions:  1,
		},
		Growth: models.GrowthMomentumInput{
			Employment: models.EmploymentReading{Value: 175},
			PMI:        51.2,
			GDPQoQ:     2.1,
		},
		RealRate:    models.RealRateInput{TwoYearYield: 4.5, FiveYearFiveYearBreakeven: 2.2},
		Positioning: models.PositioningInput{PercentileRank: 50},
	}
}

// DefaultSnapshot returns sample market data for every default currency.
func DefaultSnapshot() models.MarketSnapshot {
	s := models.MarketSnapshot{
		Volatility: models.VolatilityObservation{
			Current: 22.5,
			TrailingWindow: []float64{
				18.2, 19.1, 20.3, 21.5, 22.1, 23.0, 24.2, 25.1, 26.0, 24.8,
				23.5, 22.7, 21.9, 20.8, 19.6, 18.9, 17.8, 18.4, 19.2, 20.1,
			},
		},
		CrossAsset: models.CrossAssetReturn{
			EquityReturn:          1.2,
			SafeHavenReturn:       -0.5,
			EquityPrice:           455,
			EquityMovingAverage20: 450,
		},
	}
	for _, c := range DefaultCurrencies {
		s.Currencies = append(s.Currencies, DefaultCurrencyInput(c))
	}
	return s
}
