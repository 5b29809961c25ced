package main

import (
	"log"
	"net/http"

	"mapa_editor/internal/config"
	"mapa_editor/internal/controllers"
	"mapa_editor/internal/logger"
	"mapa_editor/internal/middleware"
	"mapa_editor/internal/repository"
	"mapa_editor/internal/routes"
	"mapa_editor/internal/routing"

	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()
	repository.Init(config.DB)

	// Directions provider; without a key every route degrades to
	// straight-line geometry, which is a supported mode.
	var client routing.DirectionsClient
	if apiKey := config.GetEnv("ORS_API_KEY", ""); apiKey != "" {
		orsClient, err := routing.NewORSClient(apiKey, config.GetEnv("ORS_BASE_URL", ""))
		if err != nil {
			log.Fatalf("failed to configure directions provider: %v", err)
		}
		client = orsClient
	} else {
		logrus.Warn("ORS_API_KEY not set; route geometry will use straight-line fallback only.")
	}
	routingService := routing.NewService(client)
	controllers.InitRouting(routingService)
	controllers.InitTracking(routingService)

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := config.GetEnv("SERVER_ADDR", "0.0.0.0:8080")
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
