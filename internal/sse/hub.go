package sse

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"notifycenter/internal/center"
	"notifycenter/internal/metrics"
)

type Client struct {
	Ch chan center.Change
}

func NewClient(buffer int) *Client {
	if buffer <= 0 {
		buffer = 16
	}
	return &Client{Ch: make(chan center.Change, buffer)}
}

// Hub fans center changes out to connected SSE clients.
type Hub struct {
	center     *center.Center
	register   chan *Client
	unregister chan *Client
	broadcast  chan center.Change
	clients    map[*Client]struct{}
	done       chan struct{}
	doneOnce   sync.Once
	mu         sync.RWMutex
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewHub(c *center.Center, m *metrics.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		center:     c,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan center.Change, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		metrics:    m,
		log:        logger,
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a change for delivery without blocking the caller. When
// the queue is full the oldest pending change gives way; every change carries
// the full snapshot, so the newest one is enough to catch a client up.
func (h *Hub) Broadcast(change center.Change) {
	if dropped := offer(h.broadcast, change); dropped {
		h.metrics.SSEDropped.Inc()
		h.log.Warn("sse hub full, oldest change dropped", zap.Uint64("version", change.Version))
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run subscribes to the center and serves the hub until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	unsubscribe := h.center.Subscribe(h.Broadcast)
	defer func() {
		unsubscribe()
		h.doneOnce.Do(func() { close(h.done) })
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case change := <-h.broadcast:
			h.broadcastToClients(change)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	h.metrics.SSEClients.Set(float64(len(h.clients)))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	h.metrics.SSEClients.Set(float64(len(h.clients)))
}

func (h *Hub) broadcastToClients(change center.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if offer(client.Ch, change) {
			h.metrics.SSEDropped.Inc()
		}
	}
}

// offer sends change on ch, evicting the oldest buffered change while ch is
// full. It reports whether anything was evicted.
func offer(ch chan center.Change, change center.Change) bool {
	dropped := false
	for {
		select {
		case ch <- change:
			return dropped
		default:
		}
		select {
		case <-ch:
			dropped = true
		default:
		}
	}
}
