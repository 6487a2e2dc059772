package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/archtools/modelsync/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Tree push from the authoring tool (requires authentication)
		v1.POST("/sync/push", middleware.Auth(authCfg), handler.Push)

		// Tree export back to the authoring tool (public read access)
		v1.GET("/sync/export", handler.Export)

		// External id binding after a successful pull (requires authentication)
		v1.POST("/sync/bindings", middleware.Auth(authCfg), handler.BindExternalIDs)

		// Deletion reconciliation (requires authentication)
		v1.POST("/sync/deletions", middleware.Auth(authCfg), handler.DeleteByExternalID)

		// Audit trail inspection (requires authentication)
		v1.GET("/sync/audit", middleware.Auth(authCfg), handler.AuditRecords)
	}
}
