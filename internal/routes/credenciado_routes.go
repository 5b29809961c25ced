package routes

import (
	"mapa_editor/internal/controllers"
	"mapa_editor/internal/middleware"

	"github.com/gin-gonic/gin"
)

func CredenciadoRoutes(r *gin.Engine) {
	credenciados := r.Group("/credenciados")
	credenciados.Use(middleware.RequireAuth())
	{
		credenciados.POST("/", controllers.CreateCredenciado)
		credenciados.GET("/", controllers.ListCredenciados)
		credenciados.PUT("/:id", controllers.UpdateCredenciado)
		credenciados.DELETE("/:id", controllers.DeleteCredenciado)
		credenciados.POST("/:id/clone", controllers.CloneCredenciado)
	}
}
