package api

import (
	"context"
	"fmt"

	"FxScore/internal/domain/models"
	domsvc "FxScore/internal/domain/service"
	"FxScore/internal/services/scoring"
	"FxScore/internal/usecase"
	xhttp "FxScore/pkg/http"
	applogger "FxScore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotScorer runs a full recalculation over a snapshot.
type SnapshotScorer interface {
	Recalculate(ctx context.Context, snap models.MarketSnapshot) (*models.ScoringResult, error)
}

// ScoringHandler exposes the stateless scoring operations. Nothing is stored.
type ScoringHandler struct {
	logger  *applogger.Logger
	regime  domsvc.RegimeDetector
	scorer  domsvc.CurrencyScorer
	signals domsvc.SignalGenerator
	calc    SnapshotScorer
}

func NewScoringHandler(logger *applogger.Logger, regime domsvc.RegimeDetector, scorer domsvc.CurrencyScorer, signals domsvc.SignalGenerator, calc SnapshotScorer) *ScoringHandler {
	return &ScoringHandler{logger: logger, regime: regime, scorer: scorer, signals: signals, calc: calc}
}

func (h *ScoringHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/regime", h.Regime)
	g.GET("/weights", h.Weights)
	g.GET("/tables", h.Tables)
	g.POST("/percentile", h.Percentile)
	g.POST("/scores/currency", h.CurrencyScore)
	g.POST("/signals/pair", h.PairSignal)
	g.POST("/real-rate/differential", h.RealRateDifferential)
	g.POST("/recalculate", h.Recalculate)
}

func (h *ScoringHandler) Regime(c echo.Context) error {
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	vol := req.Volatility.Observation()
	regime, err := h.regime.DetectRegime(vol, req.CrossAsset.Return(), req.CentralBankWeek)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	pct, err := scoring.VolatilityPercentile(vol)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, models.RegimeResponse{
		Regime:               regime,
		VolatilityPercentile: pct,
		Weights:              h.regime.Weights(regime),
	})
}

// Weights returns one regime's weights, or all of them without ?regime.
func (h *ScoringHandler) Weights(c echo.Context) error {
	req := &models.WeightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Regime != "" {
		r := models.ParseRegime(req.Regime)
		return xhttp.SuccessResponse(c, map[string]interface{}{
			"regime":             r,
			"weights":            h.regime.Weights(r),
			"positioning_weight": models.PositioningWeight,
		})
	}
	all := make(map[models.MarketRegime]models.FactorWeights, len(models.Regimes))
	for _, r := range models.Regimes {
		all[r] = h.regime.Weights(r)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"weights":            all,
		"positioning_weight": models.PositioningWeight,
	})
}

func (h *ScoringHandler) Tables(c echo.Context) error {
	return xhttp.SuccessResponse(c, scoring.ConstantTables())
}

func (h *ScoringHandler) Percentile(c echo.Context) error {
	req := &models.PercentileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p, err := scoring.PercentileRank(req.Value, req.Series)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, models.PercentileResponse{Value: req.Value, Percentile: p, SampleSize: len(req.Series)})
}

// CurrencyScore scores a single currency against the supplied market inputs.
func (h *ScoringHandler) CurrencyScore(c echo.Context) error {
	req := &models.CurrencyScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	in := req.Input
	in.Currency = usecase.NormalizeCurrency(in.Currency)
	if in.Currency == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{Code: "ERR_REQUIRED", Field: "input.currency", Message: "input.currency is required"}})
	}
	if err := in.Validate(); err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}

	vol := req.Volatility.Observation()
	cross := req.CrossAsset.Return()
	var regime models.MarketRegime
	if req.Regime != "" {
		regime = models.ParseRegime(req.Regime)
	} else {
		var err error
		if regime, err = h.regime.DetectRegime(vol, cross, req.CentralBankWeek); err != nil {
			return xhttp.AppErrorResponse(c, appError(err))
		}
	}
	s, err := h.scorer.ScoreCurrency(in, vol, cross, regime)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, models.CurrencyScoreResponse{Regime: regime, Weights: h.regime.Weights(regime), Score: s})
}

func (h *ScoringHandler) PairSignal(c echo.Context) error {
	req := &models.PairSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	a := models.CompositeCurrencyScore{Currency: usecase.NormalizeCurrency(req.A.Currency), TotalScore: req.A.TotalScore}
	b := models.CompositeCurrencyScore{Currency: usecase.NormalizeCurrency(req.B.Currency), TotalScore: req.B.TotalScore}
	if a.Currency == b.Currency {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("pair needs two different currencies, got %s twice", a.Currency))
	}
	return xhttp.SuccessResponse(c, h.signals.GenerateSignal(a, b))
}

func (h *ScoringHandler) RealRateDifferential(c echo.Context) error {
	req := &models.RealRateDifferentialRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, models.RealRateDifferentialResponse{
		RealRateA:    scoring.RealRate(req.A),
		RealRateB:    scoring.RealRate(req.B),
		Differential: scoring.RealRateDifferential(req.A, req.B),
	})
}

// Recalculate scores a full snapshot posted in the body. ?top limits the signals returned.
func (h *ScoringHandler) Recalculate(c echo.Context) error {
	snap := &models.MarketSnapshot{}
	if verr := xhttp.ReadAndValidateRequest(c, snap); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	top, err := xhttp.QueryInt(c, "top", 0, 0)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	for i := range snap.Currencies {
		snap.Currencies[i].Currency = usecase.NormalizeCurrency(snap.Currencies[i].Currency)
	}

	res, err := h.calc.Recalculate(c.Request().Context(), *snap)
	if err != nil {
		h.logger.Warn("stateless recalculation rejected", applogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(fmt.Errorf("recalculate: %w", err)))
	}
	if top > 0 && top < len(res.Signals) {
		res.Signals = res.Signals[:top]
	}
	return xhttp.SuccessResponse(c, res)
}
