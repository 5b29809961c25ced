package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mapa_editor/internal/config"
	"mapa_editor/internal/middleware"
	"mapa_editor/internal/models"
	"mapa_editor/internal/repository"
)

type presentInput struct {
	Name             string  `json:"name" binding:"required"`
	Description      string  `json:"description"`
	Kind             string  `json:"kind"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Value            float64 `json:"value"`
	CollectionRadius float64 `json:"collection_radius"`
}

// CreatePresent places a collectible present at a clicked map coordinate.
func CreatePresent(c *gin.Context) {
	userID := middleware.UserID(c)

	var input presentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid present input: " + err.Error()})
		return
	}

	if input.Kind == "" {
		input.Kind = "bonus"
	}
	if !models.ValidPresentKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid present kind: " + input.Kind})
		return
	}
	if input.CollectionRadius <= 0 {
		input.CollectionRadius = models.DefaultCollectionRadius
	}

	present := models.Present{
		Name:             input.Name,
		Description:      input.Description,
		Kind:             input.Kind,
		Lat:              input.Lat,
		Lng:              input.Lng,
		Value:            input.Value,
		CollectionRadius: input.CollectionRadius,
		UserID:           userID,
	}
	if err := config.DB.Create(&present).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create present failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(userID)
	c.JSON(http.StatusCreated, gin.H{"present": present})
}

func ListPresents(c *gin.Context) {
	userID := middleware.UserID(c)

	var presents []models.Present
	if err := config.DB.Where("user_id = ?", userID).Find(&presents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing presents: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presents})
}

func findOwnedPresent(c *gin.Context) (*models.Present, bool) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var present models.Present
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&present).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Present not found"})
		return nil, false
	}
	return &present, true
}

// UpdatePresent edits present fields. The collected flag is not editable
// here; collection goes through CollectPresent only.
func UpdatePresent(c *gin.Context) {
	present, ok := findOwnedPresent(c)
	if !ok {
		return
	}

	var input presentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid present input: " + err.Error()})
		return
	}
	if input.Kind != "" && !models.ValidPresentKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid present kind: " + input.Kind})
		return
	}

	present.Name = input.Name
	present.Description = input.Description
	if input.Kind != "" {
		present.Kind = input.Kind
	}
	present.Lat = input.Lat
	present.Lng = input.Lng
	present.Value = input.Value
	if input.CollectionRadius > 0 {
		present.CollectionRadius = input.CollectionRadius
	}

	if err := config.DB.Save(present).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update present failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"present": present})
}

func DeletePresent(c *gin.Context) {
	present, ok := findOwnedPresent(c)
	if !ok {
		return
	}

	if err := config.DB.Delete(present).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete present failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Present deleted"})
}

// CollectPresent flips the present to collected, at most once. Repeating
// the call is a no-op reported as already_collected, never an error.
func CollectPresent(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var present models.Present
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&present).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Present not found"})
		return
	}

	collected, collectedNow, err := repository.Default.CollectPresent(userID, present.ID)
	if err != nil {
		logrus.WithError(err).WithField("present_id", present.ID).Error("Failed to collect present.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Collect present failed"})
		return
	}

	if collectedNow {
		repository.NotifyChanged(userID)
	}
	c.JSON(http.StatusOK, gin.H{
		"present":           collected,
		"already_collected": !collectedNow,
	})
}

// ClonePresent duplicates a present with a nudged position and reset
// collected state.
func ClonePresent(c *gin.Context) {
	present, ok := findOwnedPresent(c)
	if !ok {
		return
	}

	clone := models.ClonePresent(*present)
	if err := config.DB.Create(&clone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Clone present failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusCreated, gin.H{"present": clone})
}
