package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoicing/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health handles GET /system/health and reports database reachability
// along with a connection pool snapshot.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
	}
	resp := gin.H{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "ok",
	}
	if h.db != nil {
		if stats, err := h.db.Stats(); err == nil {
			resp["pool"] = stats
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers system routes on the given router group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/health", h.Health)
	}
}
