package handler

import (
	"net/http"
	"time"

	"voltwise-api/internal/middleware"
	"voltwise-api/internal/model"
	"voltwise-api/pkg/logger"
	"voltwise-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildingRequest defines the structure for building creation requests. A
// user_id field in the body is deliberately not bound; the owner always comes
// from the verified session.
type BuildingRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// BuildingHandler serves the per-user building resources. Every query is
// scoped to the authenticated owner.
type BuildingHandler struct {
	DB *gorm.DB
}

func NewBuildingHandler(db *gorm.DB) *BuildingHandler {
	return &BuildingHandler{DB: db}
}

// List returns the caller's buildings and nothing else.
func (h *BuildingHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordBuildingOperation("list")

	claims, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authentication token"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	buildings := []model.Building{}
	if result := h.DB.Where("user_id = ?", claims.UserID).Find(&buildings); result.Error != nil {
		log.Error("Failed to list buildings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list buildings"})
	}

	return c.JSON(http.StatusOK, buildings)
}

// Create creates a building owned by the caller.
func (h *BuildingHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordBuildingOperation("create")

	claims, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authentication token"})
	}

	var req BuildingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid building request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}

	building := model.Building{
		UserID:  claims.UserID,
		Name:    req.Name,
		Address: req.Address,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.DB.Create(&building); result.Error != nil {
		log.Error("Failed to create building", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create building"})
	}

	log.Info("Building created",
		zap.Uint("building_id", building.ID),
		zap.Uint("user_id", building.UserID),
		zap.String("name", building.Name))
	return c.JSON(http.StatusCreated, building)
}

// findOwnedBuilding loads a building only if it belongs to the caller. A
// building that exists but is owned by someone else looks exactly like one
// that does not exist.
func findOwnedBuilding(db *gorm.DB, buildingID uint, userID uint) (*model.Building, error) {
	var building model.Building
	result := db.Where("id = ? AND user_id = ?", buildingID, userID).First(&building)
	if result.Error != nil {
		return nil, result.Error
	}
	return &building, nil
}
