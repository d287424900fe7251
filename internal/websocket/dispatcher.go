package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"bikepulse/internal/infrastructure"
	"bikepulse/internal/services"
	"bikepulse/pkg/contracts/events"
)

// Dispatcher turns inbound client frames into replies
type Dispatcher struct {
	builder   DashboardBuilder
	validator *validator.Validate
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher that answers range:set with dashboard:update
func NewDispatcher(builder DashboardBuilder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &Dispatcher{
		builder:   builder,
		validator: v,
		logger:    logger.With(slog.String("component", "websocket.dispatcher")),
	}
}

// Dispatch handles one frame and returns the reply for the sender.
// Failures are reported to the sender as error messages.
func (d *Dispatcher) Dispatch(ctx context.Context, frame []byte) events.WebSocketMessage {
	var in events.InboundMessage
	if err := json.Unmarshal(frame, &in); err != nil {
		return d.errorReply(ctx, "", events.ErrCodeInvalidFrame, "frame is not a JSON message", nil)
	}

	switch in.Type {
	case events.MessageTypeRangeSet:
		return d.rangeSet(ctx, in)
	default:
		return d.errorReply(ctx, in.ID, events.ErrCodeUnsupportedType,
			fmt.Sprintf("unsupported message type %q", in.Type), nil)
	}
}

func (d *Dispatcher) rangeSet(ctx context.Context, in events.InboundMessage) events.WebSocketMessage {
	var rng events.RangeSet
	if len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &rng); err != nil {
			return d.errorReply(ctx, in.ID, events.ErrCodeInvalidFrame, "range:set data must be an object with start and end", nil)
		}
	}

	if err := d.validator.Struct(rng); err != nil {
		var fieldErrs validator.ValidationErrors
		fields := map[string]string{}
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				fields[fe.Field()] = "must be a date in the form YYYY-MM-DD"
			}
		}
		return d.errorReply(ctx, in.ID, events.ErrCodeValidation, "invalid date range", fields)
	}

	dashboard, err := d.builder.Build(ctx, services.TriggerWebSocket, rng.Start, rng.End)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			return d.errorReply(ctx, in.ID, events.ErrCodeValidation, err.Error(), nil)
		}
		d.logger.ErrorContext(ctx, "dashboard recomputation failed",
			slog.String("error", err.Error()))
		return d.errorReply(ctx, in.ID, events.ErrCodeServerError, "dashboard is not available", nil)
	}

	return newMessage(ctx, events.MessageTypeDashboardUpdate, dashboard)
}

func (d *Dispatcher) errorReply(ctx context.Context, replyTo, code, message string, details interface{}) events.WebSocketMessage {
	d.logger.DebugContext(ctx, "rejecting client message",
		slog.String("code", code),
		slog.String("message", message))

	return newMessage(ctx, events.MessageTypeError, events.ErrorPayload{
		Code:    code,
		Message: message,
		Details: details,
		ReplyTo: replyTo,
	})
}

func newMessage(ctx context.Context, t events.MessageType, data interface{}) events.WebSocketMessage {
	return events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.NewString(),
			Type:      t,
			Timestamp: time.Now().UTC(),
			TraceID:   infrastructure.GetTraceID(ctx),
		},
		Data: data,
	}
}
