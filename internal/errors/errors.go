package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnprocessable      = "UNPROCESSABLE_ENTITY"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeWebSocketUpgrade   = "WEBSOCKET_UPGRADE_FAILED"
)

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer   = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrWebSocketUpgrade = New(http.StatusInternalServerError, CodeWebSocketUpgrade, "WebSocket upgrade failed")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")
)

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		errors,
	)
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// UnprocessableError reports a well-formed request the server cannot fulfil
func UnprocessableError(message string) *APIError {
	return New(http.StatusUnprocessableEntity, CodeUnprocessable, message)
}
