package web

import (
	"log/slog"
	"sync"
)

// sendBuffer is how many frames a client may fall behind before it is
// dropped.
const sendBuffer = 32

type client struct {
	id   string
	send chan []byte
}

// Hub fans encoded frames out to websocket clients and remembers the latest
// state frame.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		log:     logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish sends data to every client. A state frame also replaces the one
// served to new clients. Clients whose buffer is full are disconnected.
func (h *Hub) Publish(data []byte, state bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if state {
		h.latest = data
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("dropping slow client", "client", c.id)
			h.remove(c)
		}
	}
}

// Latest returns the last state frame, or nil before the first one.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Later subscriptions are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.remove(c)
	}
}

// subscribe registers a client and returns the state frame it should see
// first. It fails once the hub is closed.
func (h *Hub) subscribe(id string) (*client, []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, nil, false
	}
	c := &client{id: id, send: make(chan []byte, sendBuffer)}
	h.clients[c] = struct{}{}
	return c, h.latest, true
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// remove must be called with mu held.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
