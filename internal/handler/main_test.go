package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"voltwise-api/internal/forecast"
	"voltwise-api/internal/handler"
	"voltwise-api/internal/middleware"
	"voltwise-api/pkg/config"
	"voltwise-api/pkg/database"
	"voltwise-api/pkg/jwtutil"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestServer wires the full route table against an in-memory sqlite
// database, the same shape main builds in production.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	issuer := jwtutil.NewIssuer(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})

	authHandler := handler.NewAuthHandler(db, issuer)
	buildingHandler := handler.NewBuildingHandler(db)
	forecastHandler := handler.NewForecastHandler(db, forecast.NewMockEngine())
	meterHandler := handler.NewMeterHandler(db)
	subscriptionHandler := handler.NewSubscriptionHandler()

	e := echo.New()

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api := e.Group("/api")
	api.Use(middleware.Auth(issuer))
	api.GET("/users/me", authHandler.Me)
	api.GET("/buildings", buildingHandler.List)
	api.POST("/buildings", buildingHandler.Create)
	api.GET("/forecast/:building_id", forecastHandler.Get)
	api.POST("/meter-data/:building_id", meterHandler.Upload)
	api.POST("/subscriptions/create-checkout-session", subscriptionHandler.CreateCheckoutSession)

	return e
}

// do performs a JSON request against the test server.
func do(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// doJSON performs a JSON request and decodes the object response body.
func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	rec := do(t, e, method, path, token, body)
	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

// registerAndLogin creates an account and returns its session token.
func registerAndLogin(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()

	status, _ := doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)

	token, ok := body["token"].(string)
	require.True(t, ok, "login response must carry a token")
	return token
}
