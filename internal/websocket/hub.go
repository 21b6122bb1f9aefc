package websocket

import (
	"context"
	"sync"

	"techgear-support-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub tracks live chat connections so they can be counted and closed on shutdown.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run serves register/unregister requests until ctx is done, then closes
// every remaining connection. A client's Send channel is closed either by
// unregister or, after shutdown, by the client itself.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{
				"client_id":       client.ID,
				"conversation_id": client.ConversationID,
			})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				if client.Conn != nil {
					_ = client.Conn.Close()
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info("HUB", "Hub stopped", nil)
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
	h.logger.Info("HUB", "Client unregistered", map[string]interface{}{"client_id": client.ID})
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client, or closes its Send itself once the hub is gone.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
