package api

import (
	"FxScore/internal/domain/models"
	"FxScore/internal/services/features"
	"FxScore/internal/usecase"
	xhttp "FxScore/pkg/http"
	applogger "FxScore/pkg/logger"
	"FxScore/pkg/queue"

	"github.com/labstack/echo/v4"
)

// WorkspaceHandler serves the shared workspace. Every mutation recalculates
// and answers with the new result.
type WorkspaceHandler struct {
	logger *applogger.Logger
	ws     *usecase.Workspace
	queue  queue.QueueService
}

// NewWorkspaceHandler accepts a nil queue; async recalculation then runs inline.
func NewWorkspaceHandler(logger *applogger.Logger, ws *usecase.Workspace, q queue.QueueService) *WorkspaceHandler {
	return &WorkspaceHandler{logger: logger, ws: ws, queue: q}
}

func (h *WorkspaceHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/workspace")
	g.GET("", h.Snapshot)
	g.PUT("", h.Replace)
	g.GET("/result", h.Result)
	g.GET("/scores/:currency", h.CurrencyScore)
	g.GET("/signals", h.TopSignals)
	g.PUT("/volatility", h.UpdateVolatility)
	g.PUT("/cross-asset", h.UpdateCrossAsset)
	g.PUT("/market-series", h.UpdateMarketSeries)
	g.PUT("/central-bank-week", h.SetCentralBankWeek)
	g.PUT("/currencies/:currency", h.UpdateCurrency)
	g.DELETE("/currencies/:currency", h.RemoveCurrency)
	g.POST("/recalculate", h.Recalculate)
}

func (h *WorkspaceHandler) result(c echo.Context, res *models.ScoringResult, err error) error {
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *WorkspaceHandler) Snapshot(c echo.Context) error {
	snap, err := h.ws.Snapshot(c.Request().Context())
	if err != nil {
		h.logger.Error("load workspace snapshot", applogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *WorkspaceHandler) Replace(c echo.Context) error {
	snap := &models.MarketSnapshot{}
	if verr := xhttp.ReadAndValidateRequest(c, snap); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ws.Replace(c.Request().Context(), *snap)
	return h.result(c, res, err)
}

func (h *WorkspaceHandler) Result(c echo.Context) error {
	res, err := h.ws.Latest(c.Request().Context())
	return h.result(c, res, err)
}

func (h *WorkspaceHandler) CurrencyScore(c echo.Context) error {
	s, err := h.ws.CurrencyScore(c.Request().Context(), c.Param("currency"))
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, s)
}

// TopSignals returns the n strongest signals, the workspace default without ?n.
func (h *WorkspaceHandler) TopSignals(c echo.Context) error {
	n, err := xhttp.QueryInt(c, "n", 0, 1)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	signals, err := h.ws.TopSignals(c.Request().Context(), n)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *WorkspaceHandler) UpdateVolatility(c echo.Context) error {
	req := &models.VolatilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ws.UpdateVolatility(c.Request().Context(), req.Observation())
	return h.result(c, res, err)
}

func (h *WorkspaceHandler) UpdateCrossAsset(c echo.Context) error {
	req := &models.CrossAssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ws.UpdateCrossAsset(c.Request().Context(), req.Return())
	return h.result(c, res, err)
}

// UpdateMarketSeries derives volatility and cross-asset inputs from raw closes.
func (h *WorkspaceHandler) UpdateMarketSeries(c echo.Context) error {
	req := &models.MarketSeries{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	vol, cross, err := features.Market(*req)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	res, err := h.ws.UpdateMarket(c.Request().Context(), vol, cross)
	return h.result(c, res, err)
}

func (h *WorkspaceHandler) SetCentralBankWeek(c echo.Context) error {
	req := &models.CentralBankWeekRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ws.SetCentralBankWeek(c.Request().Context(), *req.Enabled)
	return h.result(c, res, err)
}

func (h *WorkspaceHandler) UpdateCurrency(c echo.Context) error {
	patch := &models.CurrencyPatch{}
	if verr := xhttp.ReadAndValidateRequest(c, patch); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.ws.UpdateCurrency(c.Request().Context(), c.Param("currency"), *patch)
	return h.result(c, res, err)
}

func (h *WorkspaceHandler) RemoveCurrency(c echo.Context) error {
	res, err := h.ws.RemoveCurrency(c.Request().Context(), c.Param("currency"))
	return h.result(c, res, err)
}

// Recalculate rescores in place. With ?async=true and a queue configured the
// work is enqueued and the call answers 202.
func (h *WorkspaceHandler) Recalculate(c echo.Context) error {
	ctx := c.Request().Context()
	if xhttp.QueryBool(c, "async", false) && h.queue != nil {
		req := usecase.RecalculateRequest{Reason: "http"}
		if err := h.queue.PublishMessage(ctx, usecase.RecalculateJobType, req); err != nil {
			h.logger.Error("enqueue recalculation", applogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.UnavailableError("recalculation queue unavailable").WithError(err))
		}
		return xhttp.AcceptedResponse(c, map[string]string{"job": usecase.RecalculateJobType, "status": "queued"})
	}
	res, err := h.ws.Recalculate(ctx)
	return h.result(c, res, err)
}
