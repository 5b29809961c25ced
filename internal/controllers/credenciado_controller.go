package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapa_editor/internal/config"
	"mapa_editor/internal/middleware"
	"mapa_editor/internal/models"
	"mapa_editor/internal/repository"
)

type credenciadoInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Discount    string  `json:"discount"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
}

// CreateCredenciado places an affiliated venue marker on the map.
func CreateCredenciado(c *gin.Context) {
	userID := middleware.UserID(c)

	var input credenciadoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credenciado input: " + err.Error()})
		return
	}

	if input.Kind == "" {
		input.Kind = "restaurant"
	}
	if !models.ValidCredenciadoKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credenciado kind: " + input.Kind})
		return
	}

	credenciado := models.Credenciado{
		Name:        input.Name,
		Description: input.Description,
		Kind:        input.Kind,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Discount:    input.Discount,
		Phone:       input.Phone,
		Address:     input.Address,
		UserID:      userID,
	}
	if err := config.DB.Create(&credenciado).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create credenciado failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(userID)
	c.JSON(http.StatusCreated, gin.H{"credenciado": credenciado})
}

func ListCredenciados(c *gin.Context) {
	userID := middleware.UserID(c)

	var credenciados []models.Credenciado
	if err := config.DB.Where("user_id = ?", userID).Find(&credenciados).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing credenciados: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": credenciados})
}

func findOwnedCredenciado(c *gin.Context) (*models.Credenciado, bool) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var credenciado models.Credenciado
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&credenciado).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Credenciado not found"})
		return nil, false
	}
	return &credenciado, true
}

func UpdateCredenciado(c *gin.Context) {
	credenciado, ok := findOwnedCredenciado(c)
	if !ok {
		return
	}

	var input credenciadoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credenciado input: " + err.Error()})
		return
	}
	if input.Kind != "" && !models.ValidCredenciadoKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credenciado kind: " + input.Kind})
		return
	}

	credenciado.Name = input.Name
	credenciado.Description = input.Description
	if input.Kind != "" {
		credenciado.Kind = input.Kind
	}
	credenciado.Lat = input.Lat
	credenciado.Lng = input.Lng
	credenciado.Discount = input.Discount
	credenciado.Phone = input.Phone
	credenciado.Address = input.Address

	if err := config.DB.Save(credenciado).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update credenciado failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"credenciado": credenciado})
}

func DeleteCredenciado(c *gin.Context) {
	credenciado, ok := findOwnedCredenciado(c)
	if !ok {
		return
	}

	if err := config.DB.Delete(credenciado).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete credenciado failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Credenciado deleted"})
}

// CloneCredenciado duplicates a venue with a nudged position; all other
// fields are copied verbatim.
func CloneCredenciado(c *gin.Context) {
	credenciado, ok := findOwnedCredenciado(c)
	if !ok {
		return
	}

	clone := models.CloneCredenciado(*credenciado)
	if err := config.DB.Create(&clone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Clone credenciado failed: " + err.Error()})
		return
	}

	repository.NotifyChanged(middleware.UserID(c))
	c.JSON(http.StatusCreated, gin.H{"credenciado": clone})
}
