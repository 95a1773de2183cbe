package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/quillpress/blog-api/internal/api/response"
	"github.com/quillpress/blog-api/internal/pkg/metrics"
)

const tooManyRequests = "Too many requests from this IP, please try again later"

// RateLimit throttles requests per client IP using store.
func RateLimit(store echomw.RateLimiterStore) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Fail(c, http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.Inc()
			return response.Fail(c, http.StatusTooManyRequests, tooManyRequests)
		},
	})
}
