package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/infrastructure"
	"bikepulse/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generates id when missing"},
		{name: "keeps incoming id", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenID, seenTrace string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = GetRequestID(r.Context())
				seenTrace = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seenID)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, seenID)
			}
			assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))
			assert.Equal(t, seenID, seenTrace)
		})
	}
}

func TestGetRequestIDFallsBackToTraceID(t *testing.T) {
	ctx := infrastructure.WithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestStructuredLogger(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set(RequestIDHeader, "req-9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	testutil.AssertLogContains(t, handler, slog.LevelError, "request completed")
	assert.True(t, handler.ContainsAttr("status", int64(http.StatusInternalServerError)))
	assert.True(t, handler.ContainsAttr("request_id", "req-9"))
	assert.True(t, handler.ContainsAttr("path", "/api/dashboard"))
}

func TestRateLimiter(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.5, 1, logger)
	h := rl.Handler(http.HandlerFunc(okHandler))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "2", second.Header().Get("Retry-After"))
	assert.Equal(t, "application/problem+json", second.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusTooManyRequests), body["status"])

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "rate limit exceeded")
}

func TestTimeout(t *testing.T) {
	t.Run("handler that gives up gets 504", func(t *testing.T) {
		logger, handler := testutil.NewTestLogger(t)
		h := Timeout(10*time.Millisecond, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		testutil.AssertLogContains(t, handler, slog.LevelError, "request timeout")
	})

	t.Run("fast handler is untouched", func(t *testing.T) {
		logger, handler := testutil.NewTestLogger(t)
		h := Timeout(time.Second, logger)(http.HandlerFunc(okHandler))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Zero(t, handler.Count())
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		method      string
		wantStatus  int
		allowOrigin string
	}{
		{
			name:        "allowed origin",
			origins:     []string{"http://localhost:8080"},
			origin:      "http://localhost:8080",
			method:      http.MethodGet,
			wantStatus:  http.StatusOK,
			allowOrigin: "http://localhost:8080",
		},
		{
			name:       "foreign origin gets no allow header",
			origins:    []string{"http://localhost:8080"},
			origin:     "http://evil.example",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
		{
			name:        "wildcard echoes origin",
			origins:     []string{"*"},
			origin:      "http://any.example",
			method:      http.MethodGet,
			wantStatus:  http.StatusOK,
			allowOrigin: "http://any.example",
		},
		{
			name:        "preflight short-circuits",
			origins:     []string{"http://localhost:8080"},
			origin:      "http://localhost:8080",
			method:      http.MethodOptions,
			wantStatus:  http.StatusNoContent,
			allowOrigin: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORS(CORSConfig{AllowedOrigins: tt.origins})(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(tt.method, "/api/dashboard", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.allowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://cdn.plot.ly")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
