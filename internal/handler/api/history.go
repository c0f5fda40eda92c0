package api

import (
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	"FxScore/internal/usecase"
	xhttp "FxScore/pkg/http"
	applogger "FxScore/pkg/logger"
	xutil "FxScore/pkg/util"

	"github.com/labstack/echo/v4"
)

// defaultLookback applies when a history query has no from.
const defaultLookback = 7 * 24 * time.Hour

// HistoryHandler answers score and signal history queries. With no history
// store configured every route answers 503.
type HistoryHandler struct {
	logger  *applogger.Logger
	history domrepo.ScoreHistory
	now     func() time.Time
}

func NewHistoryHandler(logger *applogger.Logger, history domrepo.ScoreHistory) *HistoryHandler {
	return &HistoryHandler{logger: logger, history: history, now: time.Now}
}

func (h *HistoryHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/history")
	g.GET("/scores", h.Scores)
	g.GET("/signals", h.Signals)
}

func (h *HistoryHandler) query(c echo.Context) (*models.HistoryRequest, time.Time, time.Time, interface{}) {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return nil, time.Time{}, time.Time{}, verr
	}
	from, to, err := xutil.ResolveRange(req.From, req.To, defaultLookback, h.now())
	if err != nil {
		return nil, time.Time{}, time.Time{}, []xhttp.ValidationError{{Code: "ERR_RANGE", Field: "from", Message: err.Error()}}
	}
	return req, from, to, nil
}

func (h *HistoryHandler) Scores(c echo.Context) error {
	if h.history == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("score history is disabled"))
	}
	req, from, to, verr := h.query(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Currency == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("currency is required"))
	}
	rows, err := h.history.QueryScores(c.Request().Context(), usecase.NormalizeCurrency(req.Currency), from, to, req.Limit)
	if err != nil {
		h.logger.Error("query score history", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("score history query failed").WithError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *HistoryHandler) Signals(c echo.Context) error {
	if h.history == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("score history is disabled"))
	}
	req, from, to, verr := h.query(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Pair == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("pair is required"))
	}
	rows, err := h.history.QuerySignals(c.Request().Context(), usecase.NormalizeCurrency(req.Pair), from, to, req.Limit)
	if err != nil {
		h.logger.Error("query signal history", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("signal history query failed").WithError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
