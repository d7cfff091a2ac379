package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/identities/:address", handler.GetIdentity)
		v1.POST("/identities/batch", handler.ResolveIdentities)

		v1.GET("/leaderboard", handler.GetLeaderboard)
		v1.GET("/buyers/:address", handler.GetBuyer)

		// Manual ingestion trigger, shares the run-in-progress guard with the scheduler
		v1.POST("/ingest", handler.TriggerIngest)
	}
}
