package routes

import (
	"mapa_editor/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/track", controllers.HandleTrackingWebSocket)
		wsRoutes.GET("/monitor", controllers.HandleMonitorWebSocket)
	}
}
