package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// HealthHandler reports liveness and version.
type HealthHandler struct {
	db    Pinger
	build BuildInfo
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(db Pinger, build BuildInfo) *HealthHandler {
	return &HealthHandler{db: db, build: build}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status, code, database := "healthy", http.StatusOK, "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status, code, database = "degraded", http.StatusServiceUnavailable, "unreachable"
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"service":  "chatbot-api",
		"database": database,
		"version":  h.build.Version,
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}
