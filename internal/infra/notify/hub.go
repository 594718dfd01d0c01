// Package notify delivers user-facing notifications to connected back-office
// sessions over Server-Sent Events.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
)

// clientBuffer is the per-client queue; events beyond it are dropped.
const clientBuffer = 64

// Client is one connected SSE session.
type Client struct {
	ID     string
	Events chan []byte
}

// Hub manages SSE client connections and broadcasts. It implements
// port.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHub creates a new SSE hub.
func NewHub(metrics *observability.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds a new client and returns it for streaming.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:     clientID,
		Events: make(chan []byte, clientBuffer),
	}
	h.clients[clientID] = c
	h.logger.Info("sse client connected",
		zap.String("client_id", clientID),
		zap.Int("total_clients", len(h.clients)),
	)
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		h.logger.Info("sse client disconnected",
			zap.String("client_id", clientID),
			zap.Int("total_clients", len(h.clients)),
		)
	}
}

// Notify broadcasts n to every connected client.
// Non-blocking: drops the message for clients whose buffer is full.
func (h *Hub) Notify(_ context.Context, n domain.Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("sse: failed to marshal notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Events <- data:
			h.metrics.IncrNotification(observability.ChannelSSE)
		default:
			h.logger.Warn("sse client buffer full, dropping notification",
				zap.String("client_id", c.ID),
			)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
