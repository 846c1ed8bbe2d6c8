package middleware

import (
	"net/http"
	"strings"

	"voltwise-api/pkg/jwtutil"
	"voltwise-api/pkg/logger"
	"voltwise-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// sessionKey is the context key the verified claims live under. Handlers go
// through SessionFrom instead of touching the context directly.
const sessionKey = "session_claims"

// TokenCookieName is the cookie the login handler sets and the guard reads.
const TokenCookieName = "token"

// Auth returns the access guard middleware. It extracts the session token,
// cookie first with the Authorization header as fallback, verifies it with
// the issuer and attaches the typed claims to the request context. A missing
// token is 401, a present-but-invalid one is 403; expired, forged and
// malformed tokens are rejected identically.
func Auth(issuer *jwtutil.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			tokenString := extractToken(c)
			if tokenString == "" {
				log.Warn("Missing authentication token")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authentication token"})
			}

			claims, err := issuer.Validate(tokenString)
			if err != nil {
				log.Warn("Rejected session token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(sessionKey, claims)
			return next(c)
		}
	}
}

// SessionFrom returns the verified session claims attached by Auth. The
// second return is false on unguarded routes.
func SessionFrom(c echo.Context) (*jwtutil.SessionClaims, bool) {
	claims, ok := c.Get(sessionKey).(*jwtutil.SessionClaims)
	return claims, ok
}

// extractToken pulls the raw token from the request. The cookie wins when
// both the cookie and a Bearer header are present.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}

	return ""
}
