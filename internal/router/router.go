package router

import (
	"github.com/gin-gonic/gin"

	"idreview/internal/handler"
	"idreview/internal/metrics"
	"idreview/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	sessionH *handler.SessionHandler,
	healthH *handler.HealthHandler,
	recorder *metrics.Recorder,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.Metrics(recorder))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(recorder.Handler()))

	v1 := r.Group("/api/v1")

	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.Get)
	sessions.DELETE("/:id", sessionH.Delete)

	// Current document
	sessions.POST("/:id/file", sessionH.SelectFile)
	sessions.DELETE("/:id/file", sessionH.ClearFile)
	sessions.POST("/:id/extract", sessionH.Extract)
	sessions.PUT("/:id/fields/:key", sessionH.EditField)
	sessions.POST("/:id/save", sessionH.Save)
	sessions.POST("/:id/reset", sessionH.Reset)
	sessions.POST("/:id/dismiss", sessionH.Dismiss)
	sessions.GET("/:id/image", sessionH.Image)

	// History
	sessions.GET("/:id/history", sessionH.ListHistory)
	sessions.POST("/:id/history/refresh", sessionH.RefreshHistory)
	sessions.GET("/:id/history/export", sessionH.ExportHistory)
	sessions.POST("/:id/history/:docID/load", sessionH.LoadHistory)

	return r
}
