package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"bikepulse/pkg/contracts/domain"
)

// Connection defines the interface for WebSocket connections
// This allows for proper mocking in tests
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	// Returns the message type and payload
	ReadMessage() (messageType int, p []byte, err error)

	// Close closes the connection
	Close() error

	// SetReadDeadline sets the read deadline on the connection
	SetReadDeadline(t time.Time) error

	// SetWriteDeadline sets the write deadline on the connection
	SetWriteDeadline(t time.Time) error

	// SetReadLimit sets the maximum size for a message read from the connection
	SetReadLimit(limit int64)

	// SetPongHandler sets the handler for pong messages
	SetPongHandler(h func(string) error)

	// RemoteAddr returns the remote network address
	RemoteAddr() string
}

// DashboardBuilder recomputes the dashboard for a date range
type DashboardBuilder interface {
	Build(ctx context.Context, trigger, start, end string) (*domain.Dashboard, error)
}

// gorillaConn adapts *websocket.Conn to Connection
type gorillaConn struct {
	*websocket.Conn
}

// WrapConn wraps a gorilla connection
func WrapConn(conn *websocket.Conn) Connection {
	return gorillaConn{Conn: conn}
}

func (c gorillaConn) RemoteAddr() string {
	if addr := c.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
