package handlers

import (
	"net/http"
	"strings"
	"time"

	"bookingportal/internal/logging"
	"bookingportal/internal/middleware"
	"bookingportal/internal/models"
	"bookingportal/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, login, logout and session checks
type AuthHandlers struct {
	authService services.AuthService
	cookies     CookieConfig
	logger      logging.Logger
}

func NewAuthHandlers(authService services.AuthService, cookies CookieConfig, logger logging.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// LoginRequest accepts the identifier under any of its names.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}

func (r LoginRequest) identifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.Phone} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

type LoginResponse struct {
	Message        string            `json:"message"`
	Token          string            `json:"token"`
	ExpiresAt      time.Time         `json:"expiresAt"`
	TokenExpiresAt time.Time         `json:"tokenExpiresAt"`
	User           models.PublicUser `json:"user"`
}

type UserResponse struct {
	User models.PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Signup godoc
// @Summary Register a portal user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "New user"
// @Success 201 {object} UserResponse
// @Failure 400 {object} echo.HTTPError
// @Failure 409 {object} echo.HTTPError
// @Router /api/auth/signup [post]
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.SignupInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.authService.Signup(ctx, req)
	if err != nil {
		return serviceError(ctx, h.logger, "signup", err)
	}
	return c.JSON(http.StatusCreated, UserResponse{User: user.Public()})
}

// Login godoc
// @Summary Log in with email or phone and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} echo.HTTPError
// @Failure 404 {object} echo.HTTPError
// @Failure 429 {object} echo.HTTPError
// @Router /api/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.authService.Login(ctx, req.identifier(), req.Password)
	if err != nil {
		return serviceError(ctx, h.logger, "login", err)
	}

	c.SetCookie(h.cookies.session(result.Token))
	return c.JSON(http.StatusOK, LoginResponse{
		Message:        "Login successful",
		Token:          result.Token,
		ExpiresAt:      result.ExpiresAt,
		TokenExpiresAt: result.TokenExpiresAt,
		User:           result.User,
	})
}

// Logout godoc
// @Summary Revoke the current session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 400 {object} echo.HTTPError
// @Router /api/auth/logout [post]
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(h.cookies.Name)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No session cookie")
	}

	if err := h.authService.Logout(ctx, cookie.Value); err != nil {
		return serviceError(ctx, h.logger, "logout", err)
	}

	c.SetCookie(h.cookies.cleared())
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Session godoc
// @Summary Return the profile behind the current session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} echo.HTTPError
// @Router /api/auth/session [get]
func (h *AuthHandlers) Session(c echo.Context) error {
	ctx := c.Request().Context()

	token, ok := middleware.TokenFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	user, err := h.authService.CheckSession(ctx, token)
	if err != nil {
		return serviceError(ctx, h.logger, "session check", err)
	}
	return c.JSON(http.StatusOK, UserResponse{User: user.Public()})
}
