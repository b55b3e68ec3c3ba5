package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eloiseboudon/excelfileProcessing-sub001/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.POST("/format", RateLimitMiddleware(cfg.RateLimit.PerIP), handler.FormatCatalog)
			catalog.GET("/workbook", handler.DownloadWorkbook)
			catalog.GET("/page", handler.DownloadPage)
			catalog.GET("/preview", handler.Preview)
			catalog.POST("/preview/toggle", handler.TogglePreview)
		}

		overrides := v1.Group("/overrides")
		{
			overrides.GET("/:catalog", handler.GetOverrides)
			overrides.PUT("/:catalog", handler.SaveOverrides)
			overrides.DELETE("/:catalog", handler.ResetOverrides)
		}
	}

	return router
}
