package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mapa_editor/internal/config"
	"mapa_editor/internal/middleware"
	"mapa_editor/internal/models"
)

var geocodeClient = &http.Client{Timeout: 10 * time.Second}

type mapboxGeocodeResponse struct {
	Features []struct {
		Center    []float64 `json:"center"` // lng,lat
		PlaceName string    `json:"place_name"`
	} `json:"features"`
}

// Geocode resolves a free-text address to a map coordinate through the
// Mapbox geocoding API, using the caller's stored token. Failures here are
// user-visible and dismissible; the map engines never depend on this path.
func Geocode(c *gin.Context) {
	userID := middleware.UserID(c)

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'q'"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	token := user.MapboxToken
	if token == "" {
		token = config.GetEnv("MAPBOX_TOKEN", "")
	}
	if token == "" {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "No Mapbox token configured. Save one in settings."})
		return
	}

	endpoint := fmt.Sprintf(
		"https://api.mapbox.com/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		url.PathEscape(query), url.QueryEscape(token),
	)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build geocode request"})
		return
	}

	resp, err := geocodeClient.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("Geocode request failed.")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoding service unreachable"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithField("status", resp.StatusCode).Warn("Geocode request rejected.")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoding service rejected the request"})
		return
	}

	var body mapboxGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Malformed geocoding response"})
		return
	}

	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found. Try a more specific search."})
		return
	}

	feature := body.Features[0]
	c.JSON(http.StatusOK, gin.H{
		"lat":          feature.Center[1],
		"lng":          feature.Center[0],
		"display_name": feature.PlaceName,
	})
}
