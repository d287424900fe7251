package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every BIKE_ variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, DefaultDailySource, cfg.Data.DailySource)
				assert.Equal(t, DefaultHourlySource, cfg.Data.HourlySource)
				assert.Equal(t, 60*time.Second, cfg.Data.FetchTimeout)
				assert.False(t, cfg.Data.StrictCodes)

				assert.Equal(t, MetricExporterPrometheus, cfg.Telemetry.MetricExporter)
				assert.Equal(t, ExporterNone, cfg.Telemetry.TraceExporter)

				assert.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
				assert.Equal(t, 30*time.Second, cfg.WebSocket.PingPeriod)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"BIKE_SERVER_PORT":                "9090",
				"BIKE_SERVER_READ_TIMEOUT":        "30s",
				"BIKE_SECURITY_ALLOWED_ORIGINS":   "http://example.com,https://example.com",
				"BIKE_SECURITY_ENABLE_CORS":       "false",
				"BIKE_LOGGING_LEVEL":              "debug",
				"BIKE_LOGGING_FORMAT":             "text",
				"BIKE_DATA_DAILY_SOURCE":          "/tmp/day.csv",
				"BIKE_DATA_STRICT_CODES":          "true",
				"BIKE_WEBSOCKET_READ_BUFFER_SIZE": "2048",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.False(t, cfg.Security.EnableCORS)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // forced by Validate
				assert.Equal(t, "/tmp/day.csv", cfg.Data.DailySource)
				assert.Equal(t, DefaultHourlySource, cfg.Data.HourlySource)
				assert.True(t, cfg.Data.StrictCodes)
				assert.Equal(t, 2048, cfg.WebSocket.ReadBufferSize)
			},
		},
		{
			name: "config file values",
			file: `
server:
  port: 7070
data:
  daily_source: ./day.csv
  hourly_source: ./hour.csv
  fetch_timeout: 5s
telemetry:
  trace_exporter: stdout
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "./day.csv", cfg.Data.DailySource)
				assert.Equal(t, "./hour.csv", cfg.Data.HourlySource)
				assert.Equal(t, 5*time.Second, cfg.Data.FetchTimeout)
				assert.Equal(t, TraceExporterStdout, cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "environment overrides config file",
			env:  map[string]string{"BIKE_SERVER_PORT": "6060"},
			file: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"BIKE_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "malformed duration",
			env:     map[string]string{"BIKE_SERVER_READ_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "unknown metric exporter",
			env:     map[string]string{"BIKE_TELEMETRY_METRIC_EXPORTER": "statsd"},
			wantErr: true,
		},
		{
			name:    "malformed config file",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				t.Setenv(EnvPrefix+"_CONFIG_FILE", writeConfigFile(t, tt.file))
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "negative read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = -1 }, wantErr: "read timeout"},
		{name: "zero write timeout", mutate: func(c *Config) { c.Server.WriteTimeout = 0 }, wantErr: "write timeout"},
		{name: "cors without origins", mutate: func(c *Config) { c.Security.AllowedOrigins = nil }, wantErr: "allowed origin"},
		{name: "missing daily source", mutate: func(c *Config) { c.Data.DailySource = " " }, wantErr: "data sources"},
		{name: "missing hourly source", mutate: func(c *Config) { c.Data.HourlySource = "" }, wantErr: "data sources"},
		{name: "negative fetch timeout", mutate: func(c *Config) { c.Data.FetchTimeout = -time.Second }, wantErr: "fetch timeout"},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, wantErr: "trace exporter"},
		{name: "sample ratio out of range", mutate: func(c *Config) { c.Telemetry.SampleRatio = 2 }, wantErr: "sample ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestMergeConfigs(t *testing.T) {
	base := *Default()
	file := Config{
		Data:      DataConfig{StrictCodes: true, HourlySource: "hour.csv"},
		WebSocket: WebSocketConfig{PongWait: 5 * time.Second},
	}

	merged := mergeConfigs(file, base)
	assert.True(t, merged.Data.StrictCodes)
	assert.Equal(t, "hour.csv", merged.Data.HourlySource)
	assert.Equal(t, DefaultDailySource, merged.Data.DailySource)
	assert.Equal(t, 5*time.Second, merged.WebSocket.PongWait)
	assert.Equal(t, base.Server, merged.Server)
}
