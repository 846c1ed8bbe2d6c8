package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"voltwise-api/internal/middleware"
	"voltwise-api/internal/model"
	"voltwise-api/pkg/config"
	"voltwise-api/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedServer(t *testing.T, issuer *jwtutil.Issuer) *echo.Echo {
	t.Helper()

	e := echo.New()
	api := e.Group("/api")
	api.Use(middleware.Auth(issuer))
	api.GET("/whoami", func(c echo.Context) error {
		claims, ok := middleware.SessionFrom(c)
		require.True(t, ok, "guarded handler must see session claims")
		return c.JSON(http.StatusOK, echo.Map{"user_id": claims.UserID, "email": claims.Email})
	})
	return e
}

func newIssuer(key string, hours int) *jwtutil.Issuer {
	return jwtutil.NewIssuer(&config.JWTConfig{SigningKey: key, ExpirationHours: hours})
}

func testToken(t *testing.T, issuer *jwtutil.Issuer) string {
	t.Helper()
	token, err := issuer.Generate(&model.User{
		ID:               7,
		Email:            "a@x.com",
		SubscriptionTier: model.TierFree,
	})
	require.NoError(t, err)
	return token
}

func request(e *echo.Echo, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingToken(t *testing.T) {
	issuer := newIssuer("key", 1)
	e := newGuardedServer(t, issuer)

	rec := request(e, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_BearerToken(t *testing.T) {
	issuer := newIssuer("key", 1)
	e := newGuardedServer(t, issuer)
	token := testToken(t, issuer)

	rec := request(e, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestAuth_CookieToken(t *testing.T) {
	issuer := newIssuer("key", 1)
	e := newGuardedServer(t, issuer)
	token := testToken(t, issuer)

	rec := request(e, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

// The cookie wins over the header when both are present: a garbage cookie is
// rejected even if the header carries a valid token.
func TestAuth_CookieTakesPrecedence(t *testing.T) {
	issuer := newIssuer("key", 1)
	e := newGuardedServer(t, issuer)
	token := testToken(t, issuer)

	rec := request(e, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: "garbage"})
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_TamperedToken(t *testing.T) {
	issuer := newIssuer("key", 1)
	e := newGuardedServer(t, issuer)
	token := testToken(t, issuer)

	rec := request(e, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token+"x")
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_WrongKey(t *testing.T) {
	e := newGuardedServer(t, newIssuer("right-key", 1))
	token := testToken(t, newIssuer("wrong-key", 1))

	rec := request(e, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	issuer := newIssuer("key", -1)
	e := newGuardedServer(t, newIssuer("key", 1))
	token := testToken(t, issuer)

	rec := request(e, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	e := newGuardedServer(t, newIssuer("key", 1))

	rec := request(e, func(req *http.Request) {
		req.Header.Set("Authorization", "Token abc")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
