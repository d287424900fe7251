package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/infrastructure"
	"bikepulse/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)

	assert.NotNil(t, handler)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantLevel  slog.Level
		wantStack  bool
	}{
		{
			name:       "api validation error",
			err:        ErrValidation("start", "invalid date"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "api not found",
			err:        NotFoundError("chart"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "api unprocessable",
			err:        UnprocessableError("no image for box charts"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnprocessable,
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "wrapped network app error",
			err:        fmt.Errorf("load: %w", NewNetworkError("fetch day.csv", errors.New("dial tcp"))),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataUnavailable,
			wantLevel:  slog.LevelError,
			wantStack:  true,
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("row 2: bad date", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
			wantLevel:  slog.LevelError,
			wantStack:  true,
		},
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantLevel:  slog.LevelError,
			wantStack:  true,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantLevel:  slog.LevelError,
			wantStack:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, true)

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-123"))
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/dashboard", body["instance"])
			assert.Equal(t, "trace-123", body["trace_id"])
			_, hasStack := body["stack"]
			assert.Equal(t, tt.wantStack, hasStack)

			testutil.AssertLogContains(t, logs, tt.wantLevel, "request failed")
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_ErrorToProblemExtensions(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodGet, "/api/export/daily.csv", nil)

	problem := handler.ErrorToProblem(NewParsingError("bad row", nil).WithContext("row", 7), req)
	assert.Equal(t, string(ErrTypeParsing), problem.Extensions["error_type"])
	assert.Equal(t, map[string]interface{}{"row": 7}, problem.Extensions["context"])

	problem = handler.ErrorToProblem(NewValidationErrors([]ValidationError{{Field: "end", Message: "bad"}}), req)
	assert.Equal(t, CodeValidationFailed, problem.Extensions["error_code"])
	assert.NotNil(t, problem.Extensions["details"])
}

func TestErrorHandler_Recoverer(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	panicking := handler.Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("unexpected state")
	}))

	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts/trend", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	_, hasPanic := body["panic"]
	assert.False(t, hasPanic)
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestErrorHandler_RecovererAbort(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	aborting := handler.Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeMethod, body["type"])
	assert.Contains(t, body["detail"], "DELETE")
}

func TestProblemDetailsMarshalKeepsStandardFields(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("status", 200).
		WithExtension("trace_id", "abc")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(404), body["status"])
	assert.Equal(t, "abc", body["trace_id"])
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}
