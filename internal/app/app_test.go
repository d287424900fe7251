package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/config"
	"bikepulse/internal/shared/testutil"
	api "bikepulse/pkg/contracts/api/v1"
	"bikepulse/pkg/contracts/events"
)

var testFrontend = fstest.MapFS{
	"index.html": {Data: []byte(`<html><head><title>{{.Title}}</title></head><body data-version="{{.Version}}"></body></html>`)},
	"app.css":    {Data: []byte(`body { margin: 0; }`)},
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	daily := filepath.Join(dir, "day.csv")
	hourly := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(daily, []byte(testutil.DailyCSV), 0o644))
	require.NoError(t, os.WriteFile(hourly, []byte(testutil.HourlyCSV), 0o644))

	cfg := config.Default()
	cfg.Data.DailySource = daily
	cfg.Data.HourlySource = hourly
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger, nil, testFrontend)
	require.NoError(t, err)
	return a
}

func serve(a *Application, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	require.NoError(t, a.Preload(context.Background()))

	tests := []struct {
		name        string
		method      string
		target      string
		wantStatus  int
		wantType    string
		wantContain string
	}{
		{name: "page", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantType: "text/html", wantContain: config.AppTitle},
		{name: "static asset", method: http.MethodGet, target: "/static/app.css", wantStatus: http.StatusOK, wantContain: "margin"},
		{name: "dashboard", method: http.MethodGet, target: "/api/dashboard", wantStatus: http.StatusOK, wantType: "application/json", wantContain: `"status":"success"`},
		{name: "dashboard range", method: http.MethodGet, target: "/api/dashboard/range", wantStatus: http.StatusOK, wantContain: "2011-01-07"},
		{name: "bad date", method: http.MethodGet, target: "/api/dashboard?start=01-01-2011", wantStatus: http.StatusBadRequest, wantContain: "VALIDATION_FAILED"},
		{name: "chart spec", method: http.MethodGet, target: "/api/charts/seasonal", wantStatus: http.StatusOK, wantContain: "Spring"},
		{name: "chart png", method: http.MethodGet, target: "/api/charts/trend.png", wantStatus: http.StatusOK, wantType: "image/png"},
		{name: "box chart png", method: http.MethodGet, target: "/api/charts/weather.png", wantStatus: http.StatusUnprocessableEntity},
		{name: "csv export", method: http.MethodGet, target: "/api/export/daily.csv?end=2011-01-03", wantStatus: http.StatusOK, wantType: "text/csv", wantContain: "2011-01-03"},
		{name: "xlsx export", method: http.MethodGet, target: "/api/export/hourly.xlsx", wantStatus: http.StatusOK, wantType: "application/vnd.openxmlformats"},
		{name: "health", method: http.MethodGet, target: "/api/health", wantStatus: http.StatusOK},
		{name: "ready", method: http.MethodGet, target: "/api/health/ready", wantStatus: http.StatusOK},
		{name: "live", method: http.MethodGet, target: "/api/health/live", wantStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, target: "/api/version", wantStatus: http.StatusOK, wantContain: "api_version"},
		{name: "unknown route", method: http.MethodGet, target: "/api/nothing", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, target: "/api/dashboard", wantStatus: http.StatusMethodNotAllowed},
		{name: "websocket without upgrade", method: http.MethodGet, target: "/ws", wantStatus: http.StatusBadRequest, wantContain: "WEBSOCKET_UPGRADE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(a, tt.method, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantType != "" {
				assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.wantType),
					"content type %q", rec.Header().Get("Content-Type"))
			}
			if tt.wantContain != "" {
				assert.Contains(t, rec.Body.String(), tt.wantContain)
			}
		})
	}
}

func TestApplication_DashboardPayload(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	require.NoError(t, a.Preload(context.Background()))

	rec := serve(a, http.MethodGet, "/api/dashboard?start=2011-01-03&end=2011-01-05")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, config.AppTitle, resp.Data.Title)
	assert.Len(t, resp.Data.Sections, 5)
	assert.Equal(t, 3, resp.Data.Rows.Daily)
	assert.Equal(t, 2, resp.Data.Rows.Hourly)
	assert.Equal(t, "2011-01-01", resp.Data.Bounds.Start.Format(time.DateOnly))
}

func TestApplication_MiddlewareHeaders(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	require.NoError(t, a.Preload(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_NotReadyBeforePreload(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	rec := serve(a, http.MethodGet, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_PreloadFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.HourlySource = filepath.Join(t.TempDir(), "missing.csv")
	a := newTestApp(t, cfg)

	err := a.Preload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dataset")

	// The failure is remembered for request paths
	rec := serve(a, http.MethodGet, "/api/dashboard")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_WebSocketRangeSet(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	require.NoError(t, a.Preload(context.Background()))
	a.WebSocketHub.Start()

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		a.WebSocketHub.Stop()
		srv.Close()
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	type frame struct {
		Type events.MessageType `json:"type"`
		Data json.RawMessage    `json:"data"`
	}
	read := func() frame {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	assert.Equal(t, events.MessageTypeConnect, read().Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "range:set",
		"data": map[string]string{"start": "2011-01-02", "end": "2011-01-02"},
	}))
	update := read()
	require.Equal(t, events.MessageTypeDashboardUpdate, update.Type)
	assert.Contains(t, string(update.Data), `"daily":1`)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "range:set",
		"data": map[string]string{"start": "2011/01/02"},
	}))
	rejected := read()
	assert.Equal(t, events.MessageTypeError, rejected.Type)
	assert.Contains(t, string(rejected.Data), events.ErrCodeValidation)
}

func TestApplication_StartStop(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Start(ctx, cancel))
	assert.True(t, a.Store.Ready())
	assert.NoError(t, a.Stop(context.Background()))
}
