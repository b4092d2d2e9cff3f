package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/r-yvan/healify/internal/auth"
	"github.com/r-yvan/healify/internal/model"
)

const identityKey = "identity"

// Auth authenticates the Authorization: Bearer <jwt> header and stores the
// parsed claims on the request context. The token is the only source of
// identity; nothing downstream trusts client-supplied emails or ids.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token")
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "bad token")
			}

			c.Set(identityKey, claims)
			return next(c)
		}
	}
}

// Identity returns the authenticated claims, or nil outside the Auth chain.
func Identity(c echo.Context) *auth.Claims {
	claims, _ := c.Get(identityKey).(*auth.Claims)
	return claims
}

// RequireRole gates a route group on the token's role. Dispatch is
// exhaustive over the closed role set, not per-screen string comparison.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Identity(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token")
			}
			switch claims.Role {
			case role:
				return next(c)
			case model.RolePatient, model.RoleDoctor:
				return echo.NewHTTPError(http.StatusForbidden, "wrong role")
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "bad token")
			}
		}
	}
}
