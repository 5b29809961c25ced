package routes

import (
	"mapa_editor/internal/controllers"
	"mapa_editor/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RouteRoutes(r *gin.Engine) {
	routes := r.Group("/routes")
	routes.Use(middleware.RequireAuth())
	{
		routes.POST("/", controllers.CreateRoute)
		routes.GET("/", controllers.ListRoutes)
		routes.GET("/:id", controllers.GetRoute)
		routes.PUT("/:id", controllers.UpdateRoute)
		routes.DELETE("/:id", controllers.DeleteRoute)
		routes.POST("/:id/marcos", controllers.AddMarco)
		routes.GET("/:id/geometry", controllers.GetRouteGeometry)
	}

	marcos := r.Group("/marcos")
	marcos.Use(middleware.RequireAuth())
	{
		marcos.PUT("/:id", controllers.UpdateMarco)
		marcos.DELETE("/:id", controllers.DeleteMarco)
		marcos.POST("/:id/clone", controllers.CloneMarco)
	}
}
