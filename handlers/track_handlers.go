// api/handlers/track_handlers.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopsmart/api/middleware"
	"shopsmart/api/models"
	"shopsmart/api/session"
)

// TrackHandlers accepts events from emitters other than the built-in storefront.
type TrackHandlers struct {
	Session *session.Session
}

func NewTrackHandlers(s *session.Session) *TrackHandlers {
	return &TrackHandlers{Session: s}
}

func (h *TrackHandlers) Register(rg *gin.RouterGroup) {
	rg.POST("/track", h.TrackEvent)
}

func (h *TrackHandlers) TrackEvent(c *gin.Context) {
	logger := middleware.FromContext(c.Request.Context())

	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Error binding incoming track JSON", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	eventType, err := models.ParseEventType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.Session.Track(eventType, req.Details, req.Metadata)
	if err != nil {
		logger.Error("Error tracking event", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
