package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"secondhand/internal/infrastructure/ratelimit"
	"secondhand/pkg/errors"
	"secondhand/pkg/logger"
	"secondhand/pkg/response"
)

// WriteRateLimit throttles state-changing requests per client IP. Reads
// are never limited.
func WriteRateLimit(limiter *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return next(c)
			}

			ip := c.RealIP()
			ok, wait := limiter.Allow(ip)
			if !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				logger.Warn("RATE LIMIT: blocked %s %s from %s (retry in %ds)", c.Request().Method, c.Path(), ip, seconds)
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
