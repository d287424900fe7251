package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/render"

	"bikepulse/internal/infrastructure"
)

// Common error types following RFC 7807
const (
	TypeValidation    = "/errors/validation"
	TypeNotFound      = "/errors/not-found"
	TypeRateLimit     = "/errors/rate-limit"
	TypeInternal      = "/errors/internal"
	TypeServiceDown   = "/errors/service-unavailable"
	TypeTimeout       = "/errors/timeout"
	TypeMethod        = "/errors/method-not-allowed"
	TypeUnprocessable = "/errors/unprocessable"
)

// Domain-specific error types
const (
	TypeDataUnavailable  = "/errors/data/unavailable"
	TypeDataCorrupted    = "/errors/data/corrupted"
	TypeWebSocketUpgrade = "/errors/websocket/upgrade-failed"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	problem.WithExtension("trace_id", traceID)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed, CodeInvalidRequest:
		problemType = TypeValidation
	case CodeNotFound:
		problemType = TypeNotFound
	case CodeUnprocessable:
		problemType = TypeUnprocessable
	case CodeRateLimitExceeded:
		problemType = TypeRateLimit
	case CodeServiceUnavailable:
		problemType = TypeServiceDown
	case CodeWebSocketUpgrade:
		problemType = TypeWebSocketUpgrade
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// appErrorToProblem maps typed application errors to HTTP problems
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	var problem *ProblemDetails
	switch appErr.Type {
	case ErrTypeValidation:
		problem = NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", appErr.Message, r.URL.Path)
	case ErrTypeNotFound:
		problem = NewProblemDetails(http.StatusNotFound, TypeNotFound, "Resource Not Found", appErr.Message, r.URL.Path)
	case ErrTypeNetwork:
		problem = NewProblemDetails(http.StatusServiceUnavailable, TypeDataUnavailable, "Data Unavailable", appErr.Message, r.URL.Path)
	case ErrTypeParsing:
		problem = NewProblemDetails(http.StatusInternalServerError, TypeDataCorrupted, "Data Corrupted", appErr.Message, r.URL.Path)
	default:
		problem = NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", appErr.Message, r.URL.Path)
	}

	problem.WithExtension("error_type", string(appErr.Type))
	if len(appErr.Context) > 0 {
		problem.WithExtension("context", appErr.Context)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", traceID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethod,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

// Recoverer returns a middleware that turns panics into RFC 7807 responses
func (h *ErrorHandler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				h.HandlePanic(w, r, rvr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
