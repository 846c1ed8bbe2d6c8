package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"voltwise-api/internal/forecast"
	"voltwise-api/internal/middleware"
	"voltwise-api/pkg/logger"
	"voltwise-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ForecastHandler exposes the forecast collaborator for buildings the caller
// owns. The ownership check happens here; the engine itself knows nothing
// about users.
type ForecastHandler struct {
	DB     *gorm.DB
	Engine forecast.Engine
}

func NewForecastHandler(db *gorm.DB, engine forecast.Engine) *ForecastHandler {
	return &ForecastHandler{DB: db, Engine: engine}
}

func (h *ForecastHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.ForecastCounter.Inc()

	claims, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authentication token"})
	}

	buildingID, err := strconv.ParseUint(c.Param("building_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	building, err := findOwnedBuilding(h.DB, uint(buildingID), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		log.Error("Failed to look up building", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "forecast unavailable"})
	}

	result, err := h.Engine.Forecast(c.Request().Context(), building.ID)
	if err != nil {
		log.Error("Forecast engine failed", zap.Uint("building_id", building.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "forecast unavailable"})
	}

	return c.JSON(http.StatusOK, result)
}
