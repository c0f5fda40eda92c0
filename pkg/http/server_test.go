package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerRegistersHandlersAndMetrics(t *testing.T) {
	regime := RouteFunc(func(e *echo.Echo) {
		e.GET("/api/weights", func(c echo.Context) error { return SuccessResponse(c, "ok") })
		e.POST("/api/regime", func(c echo.Context) error { return SuccessResponse(c, "ok") })
	})
	handlers := make([]Handler, 1, 4)
	handlers[0] = regime

	s := NewServer(nil, append(handlers, nil), WithCORS(false))
	assert.Equal(t, []string{"POST /api/regime", "GET /api/weights", "GET /metrics"}, Routes(s.Echo()))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/weights", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":"ok"}`, rec.Body.String())
}

func TestNewServerWithoutMetrics(t *testing.T) {
	s := NewServer(nil, nil, WithMetrics(false), WithCORS(false))
	assert.Empty(t, Routes(s.Echo()))
}
