package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapshotdev/snapshot-server/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	snapshotHandler  *Snapshot
	recordingHandler *Recording
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, snapshotHandler *Snapshot, recordingHandler *Recording) *Router {
	return &Router{
		cfg:              cfg,
		snapshotHandler:  snapshotHandler,
		recordingHandler: recordingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupSnapshotRoutes(v1)
	rt.setupRecordingRoutes(v1)
}

// setupSnapshotRoutes configures snapshot generation and retrieval routes
func (rt *Router) setupSnapshotRoutes(g *echo.Group) {
	snapshotGroup := g.Group("/snapshots")

	snapshotGroup.POST("", rt.snapshotHandler.Generate)
	snapshotGroup.GET("", rt.snapshotHandler.List)
	snapshotGroup.GET("/:id", rt.snapshotHandler.Get)
	snapshotGroup.GET("/:id/sections/:slug", rt.snapshotHandler.GetSection)
}

// setupRecordingRoutes configures Zoom recording routes
func (rt *Router) setupRecordingRoutes(g *echo.Group) {
	recordingGroup := g.Group("/recordings")

	if rt.recordingHandler != nil {
		recordingGroup.GET("", rt.recordingHandler.List)
		recordingGroup.GET("/:meetingId", rt.recordingHandler.GetMeeting)
	} else {
		// Placeholder routes when Zoom credentials are not configured
		recordingGroup.GET("", rt.notImplemented)
		recordingGroup.GET("/:meetingId", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint requires Zoom credentials",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Set ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID and ZOOM_CLIENT_SECRET",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
