package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// TokenContextKey is where the parsed *jwt.Token is stored on echo.Context.
const TokenContextKey = "user"

type TokenParser interface {
	ParseToken(raw string) (*jwt.Token, error)
}

// SessionToken verifies a session JWT taken from the Authorization header or
// the session cookie.
func SessionToken(parser TokenParser, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  TokenContextKey,
		TokenLookup: "header:Authorization:Bearer ,cookie:" + cookieName,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return parser.ParseToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		},
	})
}

// TokenFromContext returns the token stored by SessionToken.
func TokenFromContext(c echo.Context) (*jwt.Token, bool) {
	token, ok := c.Get(TokenContextKey).(*jwt.Token)
	return token, ok
}
