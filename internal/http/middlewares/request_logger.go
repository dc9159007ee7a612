package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ops-portal.com/ops-portal/internal/logging"
)

// RequestLogger writes one line per request through the service logger and
// tags the request context with its id.
func RequestLogger(log logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				return
			}
			ctx := logging.ContextWithFields(c.Request().Context(), "request_id", id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			}
			if v.Error != nil {
				log.Warn(c.Request().Context(), "request failed", append(args, "error", v.Error)...)
				return nil
			}
			log.Info(c.Request().Context(), "request handled", args...)
			return nil
		},
	})
}
