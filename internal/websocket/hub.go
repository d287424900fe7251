package websocket

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/events"
)

// Hub maintains the set of active clients and answers their messages
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	dispatcher *Dispatcher
	metrics    *infrastructure.BusinessMetrics

	// Mutex for thread-safe operations
	mu sync.RWMutex

	logger *slog.Logger

	totalConnections atomic.Int64
	messagesSent     atomic.Int64
	messagesReceived atomic.Int64

	// Control
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(dispatcher *Dispatcher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start starts the hub loop. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.Run()
}

// Run is the hub's main loop
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.totalConnections.Add(1)

			ctx := client.context()
			h.recordClients(ctx, 1)
			h.logger.InfoContext(ctx, "client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			greeting := newMessage(ctx, events.MessageTypeConnect, events.ConnectPayload{
				ClientID: client.id,
				Protocol: events.ProtocolName,
				Version:  events.ProtocolVersion,
			})
			if err := client.Queue(greeting); err != nil {
				h.logger.WarnContext(ctx, "failed to greet client",
					slog.String("client_id", client.id),
					slog.String("error", err.Error()))
			}

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			delete(h.clients, client)
			count := len(h.clients)
			h.mu.Unlock()
			if !ok {
				continue
			}

			client.closeSend()
			ctx := client.context()
			h.recordClients(ctx, -1)
			h.logger.InfoContext(ctx, "client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client and closes its send queue
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop stops the hub and closes every client send queue
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)
	h.mu.Unlock()

	<-h.done

	h.mu.Lock()
	remaining := len(h.clients)
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}
	h.mu.Unlock()

	h.recordClients(context.Background(), -int64(remaining))
	h.logger.Info("hub stopped",
		slog.Int("disconnected_clients", remaining),
		slog.Int64("total_connections", h.totalConnections.Load()),
		slog.Int64("messages_sent", h.messagesSent.Load()),
		slog.Int64("messages_received", h.messagesReceived.Load()))
}

// dispatch answers one client frame
func (h *Hub) dispatch(ctx context.Context, frame []byte) events.WebSocketMessage {
	h.messagesReceived.Add(1)
	h.recordMessage(ctx, "in")
	return h.dispatcher.Dispatch(ctx, frame)
}

func (h *Hub) recordClients(ctx context.Context, delta int64) {
	if h.metrics != nil && delta != 0 {
		h.metrics.WebSocketClients.Add(ctx, delta)
	}
}

func (h *Hub) recordMessage(ctx context.Context, direction string) {
	if h.metrics != nil {
		h.metrics.WebSocketMessages.Add(ctx, 1, directionAttr(direction))
	}
}
