package router

import (
	"github.com/gin-gonic/gin"

	"talentvet/internal/handler"
	"talentvet/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	scanH *handler.ScanHandler,
	sessionH *handler.SessionHandler,
	duplicateH *handler.DuplicateHandler,
	quotaH *handler.QuotaHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Scan routes
	v1.POST("/scan", scanH.Scan)
	v1.POST("/scan/batch", scanH.BatchScan)
	v1.POST("/promote", scanH.Promote)

	// Vetting session routes
	sessions := v1.Group("/sessions")
	sessions.GET("/:id", sessionH.Get)
	sessions.GET("/:id/scans", sessionH.ListScans)
	sessions.GET("/:id/approved", sessionH.ListApproved)
	sessions.GET("/:id/export", sessionH.Export)
	sessions.POST("/:id/approve/:hash", sessionH.Approve)
	sessions.POST("/:id/reject/:hash", sessionH.Reject)
	sessions.POST("/:id/bulk-approve", sessionH.BulkApprove)
	sessions.DELETE("/:id", sessionH.Delete)

	// Duplicate audit routes
	duplicates := v1.Group("/duplicates")
	duplicates.GET("/:hash", duplicateH.ListChecks)
	duplicates.POST("/:id/resolve", duplicateH.Resolve)

	// Quota routes
	quota := v1.Group("/quota")
	quota.GET("", quotaH.Usage)
	quota.GET("/check/:provider", quotaH.Check)
	quota.POST("/reset", quotaH.Reset)

	return r
}
