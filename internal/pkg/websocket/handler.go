package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EventLookup reports whether an event exists
type EventLookup interface {
	EventExists(ctx context.Context, eventID string) (bool, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	events EventLookup
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, events EventLookup, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		events: events,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to live announcements
// @Description Upgrades the connection to a WebSocket that receives every announcement published for the event. Messages from the client are ignored.
// @Tags announcements, websocket
// @Param id path string true "Event ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/announcements/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	eventID := c.Param("id")

	exists, err := h.events.EventExists(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error().Err(err).Str("eventID", eventID).Msg("Failed to look up event for subscription")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": "SRV_001", "message": "Internal server error"}})
		return
	}
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "RES_001", "message": "event not found"}})
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("eventID", eventID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 64),
		userID:  c.GetString("userID"),
		eventID: eventID,
		logger:  h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
