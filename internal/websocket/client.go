package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"bikepulse/internal/config"
	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 32

	heartbeatFrame = `{"type":"heartbeat"}`
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

var (
	// ErrClientClosed is returned when queueing to a disconnected client
	ErrClientClosed = errors.New("websocket client closed")

	// ErrSendBufferFull is returned when a slow client has fallen behind
	ErrSendBufferFull = errors.New("websocket send buffer full")
)

// ClientOptions tunes the keepalive behaviour of a client
type ClientOptions struct {
	TraceID    string
	PingPeriod time.Duration
	PongWait   time.Duration
}

// DefaultClientOptions returns the configured keepalive timings
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		PingPeriod: config.WebSocketPingPeriod,
		PongWait:   config.WebSocketPongWait,
	}
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The websocket connection
	conn Connection

	// Buffered channel of outbound messages
	send   chan []byte
	mu     sync.Mutex
	closed bool

	// Client metadata
	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	pingPeriod time.Duration
	pongWait   time.Duration

	logger *slog.Logger

	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, conn Connection, opts ClientOptions, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	defaults := DefaultClientOptions()
	if opts.PongWait <= 0 {
		opts.PongWait = defaults.PongWait
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = (opts.PongWait * 9) / 10
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)
	if opts.TraceID != "" {
		logger = logger.With(slog.String("trace_id", opts.TraceID))
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		id:          id,
		traceID:     opts.TraceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		pingPeriod:  opts.PingPeriod,
		pongWait:    opts.PongWait,
		logger:      logger,
	}
}

// ID returns the client identifier
func (c *Client) ID() string {
	return c.id
}

// Queue encodes msg and schedules it for the write pump
func (c *Client) Queue(msg events.WebSocketMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// closeSend closes the outbound queue once
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump reads client messages and queues the hub's replies
func (c *Client) ReadPump() {
	defer func() {
		c.logger.InfoContext(c.context(), "websocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived.Load()))
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(c.pongWait)) })
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.ErrorContext(c.context(), "unexpected websocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		message = bytes.TrimSpace(bytes.ReplaceAll(message, newline, space))
		c.messagesReceived.Add(1)

		if string(message) == heartbeatFrame {
			c.logger.Debug("heartbeat received")
			continue
		}

		ctx := c.context()
		reply := c.hub.dispatch(ctx, message)
		if err := c.Queue(reply); err != nil {
			c.logger.WarnContext(ctx, "dropping reply",
				slog.String("type", string(reply.Type)),
				slog.String("error", err.Error()))
			if errors.Is(err, ErrClientClosed) {
				return
			}
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.InfoContext(c.context(), "websocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent.Load()))
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.context(), "error writing message to websocket",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent.Add(1)
			c.hub.messagesSent.Add(1)
			c.hub.recordMessage(c.context(), "out")

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

func directionAttr(direction string) metric.AddOption {
	return metric.WithAttributes(attribute.String("direction", direction))
}
