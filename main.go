package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/site-audit/backend/audit"
	"github.com/site-audit/backend/logging"
	"github.com/site-audit/backend/metagen"
	"github.com/site-audit/backend/middleware"
)

var (
	auditEngine *audit.Engine
	metaService *metagen.Service
	rateLimiter *middleware.RateLimiter
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	// Set Gin mode based on environment variable
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	// Load environment configuration
	loadEnv()

	// Set up Gin mode
	setupGinMode()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	// Initialize services
	var err error
	auditEngine, err = audit.New(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize audit engine:", err)
	}
	metaService = metagen.NewService(metagen.NewHTTPProviderFromEnv(), auditEngine.GetStats())
	rateLimiter = middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5

	// Initialize statistics
	stats := logging.Initialize()

	// Initialize Gin router
	r := gin.Default()

	// Add middlewares
	r.Use(middleware.ErrorHandler())
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.Stats(stats))

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			log.Printf("Health check request received from: %s\n", c.ClientIP())
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Audit and meta-generation endpoints
		api.POST("/audit", auditPage)
		api.POST("/meta-tags", generateMetaTags)

		// Statistics endpoint
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, stats.GetStatistics())
		})
	}

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8082" // Default port
	}

	log.Printf("Server starting on http://localhost:%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func auditPage(c *gin.Context) {
	log.Printf("Audit request received from: %s\n", c.ClientIP())
	var request struct {
		URL    string `json:"url" binding:"required"`
		Markup string `json:"markup"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid audit request: url is required",
		})
		return
	}

	result := auditEngine.Audit(request.URL, request.Markup)
	c.JSON(http.StatusOK, result)
}

func generateMetaTags(c *gin.Context) {
	log.Printf("Meta-tags request received from: %s\n", c.ClientIP())
	var request metagen.TagRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid meta-tags request: title is required",
		})
		return
	}

	if request.GenerateVariations {
		set, err := metaService.GenerateVariations(c.Request.Context(), request)
		if err != nil {
			respondMetaError(c, err)
			return
		}
		c.JSON(http.StatusOK, set)
		return
	}

	bundle, err := metaService.GenerateTags(c.Request.Context(), request)
	if err != nil {
		respondMetaError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func respondMetaError(c *gin.Context, err error) {
	if errors.Is(err, metagen.ErrMissingTitle) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate meta tags: " + err.Error()})
}
