package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"water-delivery-api/config"
	"water-delivery-api/handlers"
	"water-delivery-api/routes"
	"water-delivery-api/services"
	"water-delivery-api/store"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()

	// Shared database handle; nil on connection failure, in which case every
	// request degrades to empty results instead of crashing.
	db := store.Database(cfg.MongoURI)

	cache := services.NewCache()
	authService := services.NewAuthService(store.NewUserStore(db))
	orderService := services.NewOrderService(store.NewOrderStore(db), store.NewHistoryStore(db), cache)
	profileService := services.NewProfileService(store.NewUserStore(db))
	productService := services.NewProductService(store.NewProductStore(db), cache)

	h := handlers.New(authService, orderService, profileService, productService)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Water Delivery Order Management API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "💧 Welcome to the Water Delivery Order Management API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"user", "admin"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
