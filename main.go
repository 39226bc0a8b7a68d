package main

import (
	"log"
	"net/http"
	"os"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/handlers"
	"github.com/lithursan/webapp/notify"
	"github.com/lithursan/webapp/routes"
	"github.com/lithursan/webapp/seeders"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database
	config.InitDB()

	if config.GetEnv("SEED_DEMO_DATA", "false") == "true" {
		seeders.Seed()
	}

	// Outbound notifications read their config from the environment,
	// so wire them up after godotenv has run.
	handlers.Notifier = notify.NewWebhookNotifier()

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS for the dashboard frontend
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Distribution Order Dashboard API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Distribution Order Dashboard API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"admin", "manager", "salesrep", "driver"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
