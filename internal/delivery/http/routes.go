package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	}
	{
		v1.GET("/scan/:barcode", handler.Scan)

		products := v1.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.GET("/:barcode", handler.LookupProduct)
		}

		v1.GET("/recalls", handler.RecentRecalls)

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.ListFavorites)
			favorites.POST("", handler.AddFavorite)
			favorites.PATCH("/:id", handler.UpdateFavorite)
			favorites.DELETE("/:id", handler.RemoveFavorite)
		}

		alerts := v1.Group("/alerts")
		{
			alerts.GET("", handler.ListAlerts)
			alerts.POST("/refresh", handler.RefreshAlerts)
			alerts.DELETE("/:favoriteId", handler.DismissAlert)
		}
	}

	return router
}
