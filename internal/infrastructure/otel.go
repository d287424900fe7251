package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"bikepulse/internal/config"
	"bikepulse/pkg/contracts"
)

// InstrumentationName names the tracer and meter of this module
const InstrumentationName = "bikepulse"

// OTelProviders holds the OpenTelemetry providers.
// Tracer and Meter are never nil; they fall back to no-op implementations
// when the matching exporter is "none".
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel initializes tracing and metrics from the telemetry config
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}
	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", contracts.Version),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	res := createResource(cfg)

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:  metricnoop.NewMeterProvider().Meter(InstrumentationName),
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Set up global propagators for trace context
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// NoopProviders returns providers that record nothing. Used by tests and tools.
func NoopProviders(logger *slog.Logger) *OTelProviders {
	if logger == nil {
		logger = GetLogger()
	}
	return &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:  metricnoop.NewMeterProvider().Meter(InstrumentationName),
		Logger: logger,
	}
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(contracts.Version),
		attribute.String("service.instance.id", generateInstanceID()),
	)
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case config.TraceExporterStdout:
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case config.ExporterNone, "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(contracts.Version))

	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case config.MetricExporterPrometheus:
		// Each provider gets its own registry so repeated initialization
		// does not collide on the global one.
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.MeterProvider = mp
		providers.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(contracts.Version))

		otel.SetMeterProvider(mp)

	case config.ExporterNone, "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", cfg.MetricExporter))

	return nil
}

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Dataset metrics
	DatasetLoadDuration metric.Float64Histogram
	DatasetRows         metric.Int64Gauge
	DatasetLoadErrors   metric.Int64Counter

	// Dashboard metrics
	DashboardBuildsTotal   metric.Int64Counter
	DashboardBuildDuration metric.Float64Histogram
	ChartRendersTotal      metric.Int64Counter
	ExportsTotal           metric.Int64Counter

	// WebSocket metrics
	WebSocketClients  metric.Int64UpDownCounter
	WebSocketMessages metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	m := &BusinessMetrics{}
	var err error

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	collect(err)

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	collect(err)

	m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	collect(err)

	m.DatasetLoadDuration, err = meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Time spent fetching and parsing the rental tables"),
		metric.WithUnit("s"),
	)
	collect(err)

	m.DatasetRows, err = meter.Int64Gauge(
		"dataset_rows",
		metric.WithDescription("Number of rows loaded per table"),
	)
	collect(err)

	m.DatasetLoadErrors, err = meter.Int64Counter(
		"dataset_load_errors_total",
		metric.WithDescription("Total number of failed dataset loads"),
	)
	collect(err)

	m.DashboardBuildsTotal, err = meter.Int64Counter(
		"dashboard_builds_total",
		metric.WithDescription("Total number of dashboard recomputations"),
	)
	collect(err)

	m.DashboardBuildDuration, err = meter.Float64Histogram(
		"dashboard_build_duration_seconds",
		metric.WithDescription("Filter plus chart build duration in seconds"),
		metric.WithUnit("s"),
	)
	collect(err)

	m.ChartRendersTotal, err = meter.Int64Counter(
		"chart_renders_total",
		metric.WithDescription("Total number of PNG chart renders"),
	)
	collect(err)

	m.ExportsTotal, err = meter.Int64Counter(
		"exports_total",
		metric.WithDescription("Total number of table exports"),
	)
	collect(err)

	m.WebSocketClients, err = meter.Int64UpDownCounter(
		"websocket_clients",
		metric.WithDescription("Number of connected WebSocket clients"),
	)
	collect(err)

	m.WebSocketMessages, err = meter.Int64Counter(
		"websocket_messages_total",
		metric.WithDescription("Total number of WebSocket messages by direction"),
	)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %w", errors.Join(errs...))
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// RecordDatasetLoad records the outcome of a dataset load
func RecordDatasetLoad(ctx context.Context, metrics *BusinessMetrics, duration time.Duration, dailyRows, hourlyRows int, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
		metrics.DatasetLoadErrors.Add(ctx, 1)
	}
	metrics.DatasetLoadDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("status", status)))

	if err == nil {
		metrics.DatasetRows.Record(ctx, int64(dailyRows), metric.WithAttributes(attribute.String("table", "daily")))
		metrics.DatasetRows.Record(ctx, int64(hourlyRows), metric.WithAttributes(attribute.String("table", "hourly")))
	}
}

// RecordDashboardBuild records one recomputation of the dashboard
func RecordDashboardBuild(ctx context.Context, metrics *BusinessMetrics, trigger string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("status", status),
	)
	metrics.DashboardBuildsTotal.Add(ctx, 1, attrs)
	metrics.DashboardBuildDuration.Record(ctx, duration.Seconds(), attrs)
}
