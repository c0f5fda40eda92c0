package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	applogger "FxScore/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var httpPanics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fxscore_http_panics_total",
		Help: "Handler panics turned into 500 responses",
	},
	[]string{"route"},
)

var panicsOnce sync.Once

// Recover turns a handler panic into the 500 error envelope and counts it per route.
// A response that was already committed is left alone.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	panicsOnce.Do(func() { prometheus.MustRegister(httpPanics) })
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				route := c.Path()
				httpPanics.WithLabelValues(route).Inc()
				l.Error("handler panic",
					applogger.String("route", route),
					applogger.String("method", c.Request().Method),
					applogger.Error(perr),
					applogger.String("stack", string(debug.Stack())))
				if c.Response().Committed {
					return
				}
				err = c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"status":  http.StatusInternalServerError,
					"message": http.StatusText(http.StatusInternalServerError),
					"data": []map[string]string{{
						"code":    "ERR_INTERNAL",
						"message": "something went wrong",
					}},
				})
			}()
			return next(c)
		}
	}
}
