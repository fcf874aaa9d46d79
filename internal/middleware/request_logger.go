package middleware

import (
	"log/slog"

	"bookingportal/internal/logging"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger writes one log line per request through logger.
func RequestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.RequestID != "" {
				args = append(args, slog.String("request_id", v.RequestID))
			}
			if v.Error != nil {
				args = append(args, slog.String("error", v.Error.Error()))
				logger.Error(ctx, "request failed", args...)
				return nil
			}
			if v.Status >= 500 {
				logger.Error(ctx, "request", args...)
			} else {
				logger.Info(ctx, "request", args...)
			}
			return nil
		},
	})
}
