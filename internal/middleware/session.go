package middleware

import (
	"context"
	"errors"
	"net/http"

	"bookingportal/internal/common"
	"bookingportal/internal/logging"
	"bookingportal/internal/models"

	"github.com/labstack/echo/v4"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// SessionAuth requires a valid session cookie and puts the user and token on
// the request context.
func SessionAuth(auth Authenticator, cookieName string, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			ctx := c.Request().Context()
			user, err := auth.Authenticate(ctx, cookie.Value)
			if err != nil {
				if errors.Is(err, common.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
				}
				logger.Error(ctx, "session lookup failed", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
			}

			if !user.HasLinkedAccount() {
				logger.Warn(ctx, "authenticated user has no linked servicem8 account", "user_id", user.ID)
			}

			ctx = common.WithUser(ctx, user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
