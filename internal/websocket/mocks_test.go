package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bikepulse/pkg/contracts/domain"
	"bikepulse/pkg/contracts/events"
)

// mockConnection is an in-memory Connection fed through channels
type mockConnection struct {
	incoming  chan []byte
	written   chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	pings      int
	closeFrame bool
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		incoming: make(chan []byte, 16),
		written:  make(chan []byte, 64),
		done:     make(chan struct{}),
	}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	select {
	case <-m.done:
		return websocket.ErrCloseSent
	default:
	}

	switch messageType {
	case websocket.TextMessage:
		m.written <- append([]byte(nil), data...)
	case websocket.PingMessage:
		m.mu.Lock()
		m.pings++
		m.mu.Unlock()
	case websocket.CloseMessage:
		m.mu.Lock()
		m.closeFrame = true
		m.mu.Unlock()
	}
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	select {
	case frame := <-m.incoming:
		return websocket.TextMessage, frame, nil
	case <-m.done:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
}

func (m *mockConnection) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *mockConnection) SetReadDeadline(time.Time) error   { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetReadLimit(int64)                {}
func (m *mockConnection) SetPongHandler(func(string) error) {}
func (m *mockConnection) RemoteAddr() string                { return "192.0.2.10:5000" }

func (m *mockConnection) pingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pings
}

// sentFrame is a server message as the browser sees it
type sentFrame struct {
	ID      string             `json:"id"`
	Type    events.MessageType `json:"type"`
	TraceID string             `json:"trace_id"`
	Data    json.RawMessage    `json:"data"`
}

// next waits for the next text frame written to the peer
func (m *mockConnection) next(t *testing.T) sentFrame {
	t.Helper()
	select {
	case raw := <-m.written:
		var msg sentFrame
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message written to connection")
		return sentFrame{}
	}
}

// mockBuilder is a mock for DashboardBuilder
type mockBuilder struct {
	mock.Mock
}

func (m *mockBuilder) Build(ctx context.Context, trigger, start, end string) (*domain.Dashboard, error) {
	args := m.Called(ctx, trigger, start, end)
	dashboard, _ := args.Get(0).(*domain.Dashboard)
	return dashboard, args.Error(1)
}

func sampleDashboard() *domain.Dashboard {
	return &domain.Dashboard{
		Title: "Bike Sharing Dashboard",
		Range: domain.DateRange{
			Start: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2011, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		Rows: domain.RowCounts{Daily: 365, Hourly: 8645},
	}
}
