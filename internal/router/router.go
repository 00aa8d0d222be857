package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablevine/sommelier-backend/internal/api"
	"github.com/tablevine/sommelier-backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	sommelierHandler *api.SommelierHandler,
	allowedOrigins []string,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.JSONRecovery())

	// CORS middleware
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	if rateLimiter != nil {
		v1.Use(rateLimiter.GuestRateLimitMiddleware())
	}

	authHandler.RegisterRoutes(v1)
	sommelierHandler.RegisterRoutes(v1)

	return router
}
