package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mapa_editor/internal/config"
	"mapa_editor/internal/middleware"
	"mapa_editor/internal/models"
	"mapa_editor/internal/repository"
	"mapa_editor/internal/routing"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
)

// routingService is wired once at boot; see InitRouting.
var routingService *routing.Service

// InitRouting injects the shared route geometry service.
func InitRouting(svc *routing.Service) {
	routingService = svc
}

type routeInput struct {
	Name             string     `json:"name" binding:"required"`
	Color            string     `json:"color"`
	Description      string     `json:"description"`
	ProposedValue    float64    `json:"proposed_value"`
	DeliveryDeadline *time.Time `json:"delivery_deadline"`
	Notes            string     `json:"notes"`
}

// CreateRoute creates a new route for the authenticated user, optionally
// with initial marcos.
func CreateRoute(c *gin.Context) {
	var input struct {
		routeInput
		Marcos []struct {
			Name string  `json:"name"`
			Kind string  `json:"kind"`
			Lat  float64 `json:"lat"`
			Lng  float64 `json:"lng"`
		} `json:"marcos"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	userID := middleware.UserID(c)

	for _, m := range input.Marcos {
		if !models.ValidMarcoKind(m.Kind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marco kind: " + m.Kind})
			return
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	route := models.Route{
		Name:             input.Name,
		Color:            input.Color,
		Description:      input.Description,
		ProposedValue:    input.ProposedValue,
		DeliveryDeadline: input.DeliveryDeadline,
		Notes:            input.Notes,
		UserID:           userID,
	}
	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	for _, m := range input.Marcos {
		marco := models.Marco{Name: m.Name, Kind: m.Kind, Lat: m.Lat, Lng: m.Lng, RouteID: route.ID}
		if err := tx.Create(&marco).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create marco failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	config.DB.Preload("Marcos").First(&route, route.ID)
	repository.NotifyChanged(userID)

	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// ListRoutes returns all routes owned by the authenticated user.
func ListRoutes(c *gin.Context) {
	userID := middleware.UserID(c)

	var routes []models.Route
	if err := config.DB.Preload("Marcos").Where("user_id = ?", userID).Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": routes})
}

func GetRoute(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var route models.Route
	if err := config.DB.Preload("Marcos").Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": route})
}

// UpdateRoute updates route metadata; marcos are managed separately.
func UpdateRoute(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var route models.Route
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	var input routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	route.Name = input.Name
	route.Color = input.Color
	route.Description = input.Description
	route.ProposedValue = input.ProposedValue
	route.DeliveryDeadline = input.DeliveryDeadline
	route.Notes = input.Notes

	if err := config.DB.Save(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update route failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(userID)
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// DeleteRoute removes a route and, through the cascade constraint, its marcos.
func DeleteRoute(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var route models.Route
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	if err := config.DB.Select("Marcos").Delete(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete route failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted"})
}

// AddMarco appends a marco to a route at a clicked map coordinate.
func AddMarco(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var route models.Route
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	var input struct {
		Name string  `json:"name" binding:"required"`
		Kind string  `json:"kind" binding:"required"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marco input: " + err.Error()})
		return
	}
	if !models.ValidMarcoKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marco kind: " + input.Kind})
		return
	}

	marco := models.Marco{Name: input.Name, Kind: input.Kind, Lat: input.Lat, Lng: input.Lng, RouteID: route.ID}
	if err := config.DB.Create(&marco).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create marco failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(userID)
	c.JSON(http.StatusCreated, gin.H{"marco": marco})
}

// findOwnedMarco resolves a marco id while checking the owning route's user.
func findOwnedMarco(c *gin.Context) (*models.Marco, bool) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var marco models.Marco
	err := config.DB.
		Joins("JOIN routes ON routes.id = marcos.route_id").
		Where("marcos.id = ? AND routes.user_id = ?", id, userID).
		First(&marco).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Warn("findOwnedMarco: lookup failed")
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Marco not found"})
		return nil, false
	}
	return &marco, true
}

func UpdateMarco(c *gin.Context) {
	marco, ok := findOwnedMarco(c)
	if !ok {
		return
	}

	var input struct {
		Name string  `json:"name" binding:"required"`
		Kind string  `json:"kind" binding:"required"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marco input: " + err.Error()})
		return
	}
	if !models.ValidMarcoKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid marco kind: " + input.Kind})
		return
	}

	marco.Name = input.Name
	marco.Kind = input.Kind
	marco.Lat = input.Lat
	marco.Lng = input.Lng

	if err := config.DB.Save(marco).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update marco failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"marco": marco})
}

func DeleteMarco(c *gin.Context) {
	marco, ok := findOwnedMarco(c)
	if !ok {
		return
	}

	if err := config.DB.Delete(marco).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete marco failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Marco deleted"})
}

func CloneMarco(c *gin.Context) {
	marco, ok := findOwnedMarco(c)
	if !ok {
		return
	}

	clone := models.CloneMarco(*marco)
	if err := config.DB.Create(&clone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Clone marco failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusCreated, gin.H{"marco": clone})
}

// GetRouteGeometry computes distance, duration and a GeoJSON line for a
// route. Provider failures degrade to a straight-line result, reported via
// the fallback flag rather than an error status.
func GetRouteGeometry(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var route models.Route
	if err := config.DB.Preload("Marcos").Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	result := routingService.ComputeRoute(c.Request.Context(), route.Marcos)
	if result == nil {
		c.JSON(http.StatusOK, gin.H{
			"geometry": nil,
			"message":  "Route needs at least 2 marcos",
		})
		return
	}

	line, err := geometryToGeoJSON(result)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.ID).Error("Failed to encode route geometry.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode geometry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"route_id":         route.ID,
		"distance_meters":  result.DistanceMeters,
		"duration_seconds": result.DurationSeconds,
		"fallback":         result.Fallback,
		"line":             line,
	})
}

// geometryToGeoJSON encodes the polyline as a GeoJSON LineString (lng,lat
// pair order per the GeoJSON spec).
func geometryToGeoJSON(result *routing.Result) (json.RawMessage, error) {
	coords := make([]geom.Coord, 0, len(result.Geometry))
	for _, p := range result.Geometry {
		coords = append(coords, geom.Coord{p.Lng, p.Lat})
	}

	line := geom.NewLineString(geom.XY)
	if _, err := line.SetCoords(coords); err != nil {
		return nil, err
	}

	b, err := gjson.Marshal(line)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
