package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "FxScore/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(e *echo.Echo, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func corsEcho(origins ...string) *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPut},
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        600,
	}))
	e.GET("/api/regime", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func TestCORSPreflight(t *testing.T) {
	e := corsEcho("https://desk.example")
	rec := serve(e, http.MethodOptions, "/api/regime", map[string]string{echo.HeaderOrigin: "https://desk.example"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://desk.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, PUT", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestCORSSimpleRequestExposesHeaders(t *testing.T) {
	e := corsEcho("*")
	rec := serve(e, http.MethodGet, "/api/regime", map[string]string{echo.HeaderOrigin: "https://any.example"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "Retry-After", rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	e := corsEcho("https://desk.example")
	rec := serve(e, http.MethodGet, "/api/regime", map[string]string{echo.HeaderOrigin: "https://evil.example"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestRecoverWritesErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(Recover(applogger.NewWriter(&buf)))
	e.GET("/boom", func(c echo.Context) error { panic("nil weights") })

	rec := serve(e, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ERR_INTERNAL"`)
	assert.Contains(t, buf.String(), "nil weights")
	assert.Contains(t, buf.String(), `"route":"/boom"`)
}

func TestRequestLoggingSkipsMetrics(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogging(applogger.NewWriter(&buf)))
	e.GET("/metrics", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/api/scores", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	serve(e, http.MethodGet, "/metrics", nil)
	assert.Empty(t, buf.String())

	serve(e, http.MethodGet, "/api/scores", map[string]string{echo.HeaderXRequestID: "req-1"})
	assert.Contains(t, buf.String(), `"route":"/api/scores"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
