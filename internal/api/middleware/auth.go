package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fasttech/usuarios/internal/core/authz"
	"github.com/fasttech/usuarios/internal/core/token"
)

// RequesterKey is the echo context key holding the authz.Requester of an
// authenticated request.
const RequesterKey = "requester"

// AccessTokenParser verifies access tokens. *token.Issuer satisfies it.
type AccessTokenParser interface {
	ParseAccessToken(raw string) (*token.AccessClaims, error)
}

// Auth validates the bearer access token and injects the requester into
// context. The role claim is parsed once here; handlers only see typed roles.
func Auth(tokens AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.ParseAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			requester, err := authz.NewRequester(claims.Subject, string(claims.Role))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(RequesterKey, requester)
			return next(c)
		}
	}
}

// RequesterFrom returns the requester set by Auth.
func RequesterFrom(c echo.Context) (authz.Requester, bool) {
	r, ok := c.Get(RequesterKey).(authz.Requester)
	return r, ok
}
