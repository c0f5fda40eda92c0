package models

// Request bodies for the HTTP API. Validation tags run after creasty/defaults.

type VolatilityRequest struct {
	Current        float64   `json:"current" validate:"gte=0"`
	TrailingWindow []float64 `json:"trailing_window" validate:"required,min=1,dive,gte=0"`
}

func (r VolatilityRequest) Observation() VolatilityObservation {
	return VolatilityObservation{Current: r.Current, TrailingWindow: append([]float64(nil), r.TrailingWindow...)}
}

type CrossAssetRequest struct {
	EquityReturn          float64 `json:"equity_return"`
	SafeHavenReturn       float64 `json:"safe_haven_return"`
	EquityPrice           float64 `json:"equity_price" validate:"gte=0"`
	EquityMovingAverage20 float64 `json:"equity_ma20" validate:"gte=0"`
}

func (r CrossAssetRequest) Return() CrossAssetReturn {
	return CrossAssetReturn(r)
}

type RegimeRequest struct {
	Volatility      VolatilityRequest `json:"volatility"`
	CrossAsset      CrossAssetRequest `json:"cross_asset"`
	CentralBankWeek bool              `json:"central_bank_week"`
}

type RegimeResponse struct {
	Regime               MarketRegime  `json:"regime"`
	VolatilityPercentile float64       `json:"volatility_percentile"`
	Weights              FactorWeights `json:"weights"`
}

type WeightsRequest struct {
	Regime string `query:"regime" validate:"omitempty,regime"`
}

type PercentileRequest struct {
	Value  float64   `json:"value"`
	Series []float64 `json:"series" validate:"required,min=1"`
}

type PercentileResponse struct {
	Value      float64 `json:"value"`
	Percentile float64 `json:"percentile"`
	SampleSize int     `json:"sample_size"`
}

// CurrencyScoreRequest scores one currency. An empty Regime is detected from the market inputs.
type CurrencyScoreRequest struct {
	Input           CurrencyInput     `json:"input"`
	Volatility      VolatilityRequest `json:"volatility"`
	CrossAsset      CrossAssetRequest `json:"cross_asset"`
	CentralBankWeek bool              `json:"central_bank_week"`
	Regime          string            `json:"regime" validate:"omitempty,regime"`
}

type CurrencyScoreResponse struct {
	Regime  MarketRegime           `json:"regime"`
	Weights FactorWeights          `json:"weights"`
	Score   CompositeCurrencyScore `json:"score"`
}

type ScoreRef struct {
	Currency   string  `json:"currency" validate:"required,min=1,max=8"`
	TotalScore float64 `json:"total_score"`
}

type PairSignalRequest struct {
	A ScoreRef `json:"a"`
	B ScoreRef `json:"b"`
}

type RealRateDifferentialRequest struct {
	A RealRateInput `json:"a"`
	B RealRateInput `json:"b"`
}

type RealRateDifferentialResponse struct {
	RealRateA    float64 `json:"real_rate_a"`
	RealRateB    float64 `json:"real_rate_b"`
	Differential float64 `json:"differential"`
}

type CentralBankWeekRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type RecalculateQuery struct {
	Top   int  `query:"top" validate:"gte=0"`
	Async bool `query:"async"`
}

type HistoryRequest struct {
	Currency string `query:"currency" validate:"omitempty,max=8"`
	Pair     string `query:"pair" validate:"omitempty,max=17"`
	From     string `query:"from"`
	To       string `query:"to"`
	Limit    int    `query:"limit" default:"100" validate:"gte=1,lte=5000"`
}
