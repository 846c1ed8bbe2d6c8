package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"voltwise-api/internal/middleware"
	"voltwise-api/pkg/logger"
	"voltwise-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MeterHandler accepts meter data uploads for buildings the caller owns.
// CSV parsing is not implemented; the endpoint validates ownership and the
// multipart payload and acknowledges the upload.
type MeterHandler struct {
	DB *gorm.DB
}

func NewMeterHandler(db *gorm.DB) *MeterHandler {
	return &MeterHandler{DB: db}
}

func (h *MeterHandler) Upload(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.MeterUploadCounter.Inc()

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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	// TODO: parse the CSV and insert rows into meter_data.
	log.Info("Meter data received",
		zap.Uint("building_id", building.ID),
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size))

	return c.JSON(http.StatusOK, echo.Map{"message": "Data uploaded successfully"})
}
