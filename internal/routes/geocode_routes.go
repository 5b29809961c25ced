package routes

import (
	"mapa_editor/internal/controllers"
	"mapa_editor/internal/middleware"

	"github.com/gin-gonic/gin"
)

func GeocodeRoutes(r *gin.Engine) {
	geocode := r.Group("/geocode")
	geocode.Use(middleware.RequireAuth())
	{
		geocode.GET("/", controllers.Geocode)
	}
}
