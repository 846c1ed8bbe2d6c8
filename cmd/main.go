package main

import (
	"voltwise-api/internal/forecast"
	"voltwise-api/internal/handler"
	"voltwise-api/internal/middleware"
	"voltwise-api/pkg/config"
	"voltwise-api/pkg/database"
	"voltwise-api/pkg/jwtutil"
	"voltwise-api/pkg/logger"
	"voltwise-api/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting VoltWise API...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Session token issuer - the only holder of the signing key
	issuer := jwtutil.NewIssuer(&cfg.JWT)

	// Handlers with their dependencies
	authHandler := handler.NewAuthHandler(db, issuer)
	buildingHandler := handler.NewBuildingHandler(db)
	forecastHandler := handler.NewForecastHandler(db, forecast.NewMockEngine())
	meterHandler := handler.NewMeterHandler(db)
	subscriptionHandler := handler.NewSubscriptionHandler()
	healthHandler := handler.NewHealthHandler(db)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", healthHandler.Metrics)

	// Authentication routes
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// API routes - all require a verified session
	api := e.Group("/api")
	api.Use(middleware.Auth(issuer))

	api.GET("/users/me", authHandler.Me)

	api.GET("/buildings", buildingHandler.List)
	api.POST("/buildings", buildingHandler.Create)

	api.GET("/forecast/:building_id", forecastHandler.Get)
	api.POST("/meter-data/:building_id", meterHandler.Upload)

	api.POST("/subscriptions/create-checkout-session", subscriptionHandler.CreateCheckoutSession)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
