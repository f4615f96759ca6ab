package handlers

import (
	"github.com/SAP-F-2025/override-service/internal/services"
	"github.com/SAP-F-2025/override-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	importHandler *ImportHandler
}

func NewHandlerManager(
	importService services.OverrideImportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		importHandler: NewImportHandler(importService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("/:id/overrides/import", hm.importHandler.PreviewImport)
			quizzes.POST("/:id/overrides/import/:batch_id/commit", hm.importHandler.CommitImport)
		}

		batches := v1.Group("/import-batches")
		{
			batches.GET("", hm.importHandler.ListImportBatches)
			batches.GET("/:batch_id", hm.importHandler.GetImportBatch)
		}
	}
}
