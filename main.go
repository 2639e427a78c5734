package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/slateflow/api/v1"
	"github.com/slateflow/config"
	"github.com/slateflow/database"
	"github.com/slateflow/services"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize database connection and schema
	database.Initialize()

	// Set Gin mode
	gin.SetMode(config.GetEnv("GIN_MODE", gin.ReleaseMode))

	// Initialize router
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	// Register API routes
	v1.RegisterRoutes(router.Group("/api/v1"))

	// Start the deadline sweeper unless disabled. It runs for the life of
	// the process; the server below never returns except on fatal error.
	if config.GetEnvBool("DEADLINE_SWEEP_ENABLED", true) {
		sweeper := services.NewDeadlineService()
		if err := sweeper.Start(config.GetEnv("DEADLINE_SWEEP_SPEC", "@every 5m")); err != nil {
			log.Fatalf("Failed to start deadline sweeper: %v", err)
		}
	}

	// Start server
	port := config.GetEnv("PORT", "8080")
	log.Printf("🎬 SlateFlow starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
