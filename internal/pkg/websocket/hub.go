package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/pkg/metrics"
)

// Hub maintains the set of active subscribers and fans announcements out to them
type Hub struct {
	// Registered clients organized by event ID
	clients map[string]map[*Client]bool

	// Payloads waiting to be fanned out
	broadcast chan envelope

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	done chan struct{}

	// Logger for Hub operations
	logger zerolog.Logger
}

type envelope struct {
	eventID string
	payload []byte
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.eventID]; !ok {
		h.clients[client.eventID] = make(map[*Client]bool)
	}
	h.clients[client.eventID][client] = true
	metrics.WebsocketSubscribers.Inc()

	h.logger.Info().
		Str("eventID", client.eventID).
		Str("userID", client.userID).
		Msg("Subscriber registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.eventID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	metrics.WebsocketSubscribers.Dec()

	// If no more clients for this event, clean up
	if len(clients) == 0 {
		delete(h.clients, client.eventID)
	}

	h.logger.Info().
		Str("eventID", client.eventID).
		Str("userID", client.userID).
		Msg("Subscriber unregistered")
}

// broadcastMessage sends a payload to every subscriber of an event. Slow subscribers are dropped.
func (h *Hub) broadcastMessage(msg envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[msg.eventID]
	if !ok {
		h.logger.Debug().Str("eventID", msg.eventID).Msg("No subscribers for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- msg.payload:
		default:
			h.logger.Warn().Str("eventID", msg.eventID).Str("userID", client.userID).
				Msg("Subscriber send buffer full, disconnecting")
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("eventID", msg.eventID).
		Int("clientCount", len(clients)).
		Msg("Announcement broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// Broadcast queues payload for the event's subscribers without blocking the caller
func (h *Hub) Broadcast(eventID string, payload []byte) {
	select {
	case h.broadcast <- envelope{eventID: eventID, payload: payload}:
	default:
		h.logger.Warn().Str("eventID", eventID).Msg("Broadcast queue full, dropping announcement")
	}
}

// GetClientsCount returns the number of connected subscribers for an event
func (h *Hub) GetClientsCount(eventID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[eventID])
}
