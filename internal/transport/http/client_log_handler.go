package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apierrors "bikepulse/internal/errors"
)

// maxClientMessage bounds the message length accepted from the page
const maxClientMessage = 2048

// ClientLogHandler records log entries sent by the dashboard page
type ClientLogHandler struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		logger:       logger.With(slog.String("handler", "client_log")),
		errorHandler: errorHandler,
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty"`
}

// Handle processes POST /api/log
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, 64<<10), &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "request body must be a JSON log entry"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("message", "message is required"))
		return
	}
	if len(req.Message) > maxClientMessage {
		req.Message = req.Message[:maxClientMessage]
	}

	attrs := []slog.Attr{slog.String("client_source", req.Source)}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), clientLevel(req.Level), req.Message, attrs...)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

func clientLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
