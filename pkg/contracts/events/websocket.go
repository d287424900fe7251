// Package events contains event contract definitions for WebSocket communication
// between the dashboard page and the server.
package events

import (
	"encoding/json"
	"time"
)

// Protocol version
const (
	ProtocolVersion = "1.0"
	ProtocolName    = "bikepulse-websocket-protocol"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client to server: recompute the dashboard for a new range
	MessageTypeRangeSet MessageType = "range:set"

	// Server to client: a freshly built dashboard
	MessageTypeDashboardUpdate MessageType = "dashboard:update"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// Protocol error codes
const (
	ErrCodeInvalidFrame    = "INVALID_FRAME"
	ErrCodeUnsupportedType = "UNSUPPORTED_TYPE"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeServerError     = "SERVER_ERROR"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete outbound WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"` // Message payload
}

// InboundMessage is a client message whose payload is decoded by type
type InboundMessage struct {
	ID   string          `json:"id,omitempty"`
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RangeSet is the payload of a range:set message
type RangeSet struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// ErrorPayload is the payload of an error message
type ErrorPayload struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	ReplyTo string      `json:"reply_to,omitempty"`
}

// ConnectPayload greets a freshly connected client
type ConnectPayload struct {
	ClientID string `json:"client_id"`
	Protocol string `json:"protocol"`
	Version  string `json:"version"`
}
