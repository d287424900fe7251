package config

import "time"

// Application constants
const (
	// Application Info
	AppName  = "bikepulse"
	AppTitle = "Bike Sharing Dashboard"

	// EnvPrefix namespaces every environment variable, e.g. BIKE_SERVER_PORT
	EnvPrefix = "BIKE"

	// Data sources
	DefaultDailySource  = "https://raw.githubusercontent.com/Leon24k/BicycleData/refs/heads/master/Dashboard/day.csv"
	DefaultHourlySource = "https://raw.githubusercontent.com/Leon24k/BicycleData/refs/heads/master/Dashboard/hour.csv"
	DefaultFetchTimeout = 60 * time.Second

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// WebSocket
	WebSocketPingPeriod      = 30 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/app.log"

	// Telemetry exporters
	MetricExporterPrometheus = "prometheus"
	TraceExporterStdout      = "stdout"
	ExporterNone             = "none"

	// Endpoints
	APIBasePath       = "/api"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
