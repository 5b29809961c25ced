package routes

import (
	"mapa_editor/internal/controllers"
	"mapa_editor/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", controllers.SignupUser)
		auth.POST("/login", controllers.LoginUser)
		auth.PUT("/settings", middleware.RequireAuth(), controllers.UpdateSettings)
	}
}
