package routes

import (
	"mapa_editor/internal/controllers"
	"mapa_editor/internal/middleware"

	"github.com/gin-gonic/gin"
)

func PresentRoutes(r *gin.Engine) {
	presents := r.Group("/presents")
	presents.Use(middleware.RequireAuth())
	{
		presents.POST("/", controllers.CreatePresent)
		presents.GET("/", controllers.ListPresents)
		presents.PUT("/:id", controllers.UpdatePresent)
		presents.DELETE("/:id", controllers.DeletePresent)
		presents.POST("/:id/collect", controllers.CollectPresent)
		presents.POST("/:id/clone", controllers.ClonePresent)
	}
}
