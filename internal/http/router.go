// Package http exposes grid descriptions over a JSON API.
package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nemo-coupling/orca-grids/internal/adapter/store"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(source store.GridSource) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(source)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/grids", handler.GetGrids)

	subgrids := v1.Group("/subgrids")
	subgrids.GET("/:subgrid", handler.GetSubgrid)
	subgrids.GET("/:subgrid/cells/:i/:j", handler.GetCell)

	// Health check.
	router.GET("/healthz", handler.HealthCheck)

	return router
}
