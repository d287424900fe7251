package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bikepulse/internal/config"
	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/infrastructure"
)

// UpgradeHandler upgrades /ws requests and attaches the connection to the hub
type UpgradeHandler struct {
	hub            *Hub
	upgrader       websocket.Upgrader
	allowedOrigins []string
	opts           ClientOptions
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewUpgradeHandler creates the websocket endpoint handler
func NewUpgradeHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UpgradeHandler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	h := &UpgradeHandler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
		opts: ClientOptions{
			PingPeriod: cfg.PingPeriod,
			PongWait:   cfg.PongWait,
		},
		logger:       logger.With(slog.String("component", "websocket.upgrade")),
		errorHandler: errorHandler,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
		Error:           h.upgradeError,
	}
	return h
}

// ServeHTTP implements http.Handler
func (h *UpgradeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = infrastructure.WithTraceID(ctx, traceID)
		r = r.WithContext(ctx)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the request.
		return
	}

	opts := h.opts
	opts.TraceID = traceID
	client := NewClient(h.hub, WrapConn(conn), opts, h.logger)
	h.hub.Register(client)

	h.logger.InfoContext(ctx, "websocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", r.RemoteAddr))

	go client.WritePump()
	go client.ReadPump()
}

func (h *UpgradeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow if no origin (non-browser client)
	if origin == "" {
		return true
	}

	if strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://"), r.Host) {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}

	h.logger.WarnContext(r.Context(), "websocket origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", h.allowedOrigins))
	return false
}

func (h *UpgradeHandler) upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	h.logger.WarnContext(r.Context(), "websocket upgrade failed",
		slog.Int("status", status),
		slog.String("reason", reason.Error()),
		slog.String("origin", r.Header.Get("Origin")))

	err := apierrors.New(status, apierrors.CodeWebSocketUpgrade, reason.Error())
	if h.errorHandler != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	http.Error(w, err.Message, status)
}
