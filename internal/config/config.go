package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig describes where the two rental tables come from.
// A source is either an http(s) URL or a local file path.
type DataConfig struct {
	DailySource  string        `yaml:"daily_source" envconfig:"DAILY_SOURCE"`
	HourlySource string        `yaml:"hourly_source" envconfig:"HOURLY_SOURCE"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	StrictCodes  bool          `yaml:"strict_codes" envconfig:"STRICT_CODES"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// Load loads configuration from a .env file, environment variables and config file
func Load() (*Config, error) {
	// A missing .env file is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := *Default()

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Environment variables override the file
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs copies every non-zero file value over base
func mergeConfigs(fileConfig, base Config) Config {
	// Server config
	if fileConfig.Server.Port != 0 {
		base.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 {
		base.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 {
		base.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.IdleTimeout != 0 {
		base.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if fileConfig.Server.ShutdownTimeout != 0 {
		base.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if fileConfig.Server.RequestTimeout != 0 {
		base.Server.RequestTimeout = fileConfig.Server.RequestTimeout
	}

	// Security config
	if len(fileConfig.Security.AllowedOrigins) > 0 {
		base.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if fileConfig.Security.RateLimit.RPS != 0 {
		base.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if fileConfig.Security.RateLimit.Burst != 0 {
		base.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}

	// Logging config
	if fileConfig.Logging.Level != "" {
		base.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" {
		base.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" {
		base.Logging.FilePath = fileConfig.Logging.FilePath
	}

	// Data config
	if fileConfig.Data.DailySource != "" {
		base.Data.DailySource = fileConfig.Data.DailySource
	}
	if fileConfig.Data.HourlySource != "" {
		base.Data.HourlySource = fileConfig.Data.HourlySource
	}
	if fileConfig.Data.FetchTimeout != 0 {
		base.Data.FetchTimeout = fileConfig.Data.FetchTimeout
	}
	if fileConfig.Data.StrictCodes {
		base.Data.StrictCodes = true
	}

	// Telemetry config
	if fileConfig.Telemetry.ServiceName != "" {
		base.Telemetry.ServiceName = fileConfig.Telemetry.ServiceName
	}
	if fileConfig.Telemetry.MetricExporter != "" {
		base.Telemetry.MetricExporter = fileConfig.Telemetry.MetricExporter
	}
	if fileConfig.Telemetry.TraceExporter != "" {
		base.Telemetry.TraceExporter = fileConfig.Telemetry.TraceExporter
	}
	if fileConfig.Telemetry.SampleRatio != 0 {
		base.Telemetry.SampleRatio = fileConfig.Telemetry.SampleRatio
	}

	// WebSocket config
	if fileConfig.WebSocket.ReadBufferSize != 0 {
		base.WebSocket.ReadBufferSize = fileConfig.WebSocket.ReadBufferSize
	}
	if fileConfig.WebSocket.WriteBufferSize != 0 {
		base.WebSocket.WriteBufferSize = fileConfig.WebSocket.WriteBufferSize
	}
	if fileConfig.WebSocket.PingPeriod != 0 {
		base.WebSocket.PingPeriod = fileConfig.WebSocket.PingPeriod
	}
	if fileConfig.WebSocket.PongWait != 0 {
		base.WebSocket.PongWait = fileConfig.WebSocket.PongWait
	}

	return base
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if strings.TrimSpace(c.Data.DailySource) == "" || strings.TrimSpace(c.Data.HourlySource) == "" {
		return fmt.Errorf("both daily and hourly data sources are required")
	}

	if c.Data.FetchTimeout < 0 {
		return fmt.Errorf("data fetch timeout must not be negative")
	}

	switch c.Telemetry.MetricExporter {
	case MetricExporterPrometheus, ExporterNone:
	default:
		return fmt.Errorf("unknown metric exporter: %q", c.Telemetry.MetricExporter)
	}

	switch c.Telemetry.TraceExporter {
	case TraceExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("unknown trace exporter: %q", c.Telemetry.TraceExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("trace sample ratio must be within [0,1], got %v", c.Telemetry.SampleRatio)
	}

	// The logger only writes JSON
	c.Logging.Format = "json"

	if c.Logging.Output != "console" && c.Logging.Output != "file" && c.Logging.Output != "both" {
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Data: DataConfig{
			DailySource:  DefaultDailySource,
			HourlySource: DefaultHourlySource,
			FetchTimeout: DefaultFetchTimeout,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			MetricExporter: MetricExporterPrometheus,
			TraceExporter:  ExporterNone,
			SampleRatio:    1,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  WebSocketReadBufferSize,
			WriteBufferSize: WebSocketWriteBufferSize,
			PingPeriod:      WebSocketPingPeriod,
			PongWait:        WebSocketPongWait,
		},
	}
}
