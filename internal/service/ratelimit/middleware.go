package ratelimit

import (
	"math"
	"net/http"

	xhttp "FxScore/pkg/http"

	"github.com/labstack/echo/v4"
)

// Middleware limits write requests per client IP. Safe methods pass through.
func Middleware(l *Limiter, onReject func(key string)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			key := c.RealIP()
			if l.Allow(key) {
				return next(c)
			}
			if onReject != nil {
				onReject(key)
			}
			return xhttp.RateLimitedResponse(c, int(math.Ceil(l.RetryAfter().Seconds())))
		}
	}
}
