package handlers

import (
	"context"
	"errors"
	"net/http"

	"bookingportal/internal/common"
	"bookingportal/internal/logging"

	"github.com/labstack/echo/v4"
)

// serviceError maps service sentinel errors onto HTTP errors. Anything
// unrecognised, upstream ServiceM8 failures included, is logged and becomes a
// generic 500.
func serviceError(ctx context.Context, logger logging.Logger, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrMissingCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Identifier and password are required")
	case errors.Is(err, common.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusNotFound, "Invalid credentials")
	case errors.Is(err, common.ErrExternalAccountNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "No ServiceM8 account found for this user")
	case errors.Is(err, common.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
	case errors.Is(err, common.ErrNoLinkedAccount):
		return echo.NewHTTPError(http.StatusBadRequest, "User is not linked to a ServiceM8 account")
	case errors.Is(err, common.ErrEmptyMessage):
		return echo.NewHTTPError(http.StatusBadRequest, "Message is required")
	case errors.Is(err, common.ErrInvalidSignup):
		return echo.NewHTTPError(http.StatusBadRequest, "Name, email and password are required")
	case errors.Is(err, common.ErrPasswordTooShort):
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, common.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	case errors.Is(err, common.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts, try again later")
	}
	logger.Error(ctx, op+" failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
