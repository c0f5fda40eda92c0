package models

import "time"

// ScoreRecord is one stored composite score with the regime it was computed under.
type ScoreRecord struct {
	CalculatedAt time.Time    `json:"calculated_at"`
	Regime       MarketRegime `json:"regime"`
	CompositeCurrencyScore
}

// SignalRecord is one stored pair signal.
type SignalRecord struct {
	CalculatedAt time.Time    `json:"calculated_at"`
	Regime       MarketRegime `json:"regime"`
	PairSignal
}
