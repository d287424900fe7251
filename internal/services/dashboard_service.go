package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"bikepulse/internal/charts"
	"bikepulse/internal/config"
	"bikepulse/internal/dataprocessing"
	"bikepulse/internal/exporter"
	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/domain"
)

// Build triggers
const (
	TriggerHTTP      = "http"
	TriggerWebSocket = "websocket"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// TableSource provides the loaded tables
type TableSource interface {
	Tables(ctx context.Context) (*domain.Tables, error)
}

// DashboardService recomputes the dashboard for a date range
type DashboardService struct {
	source  TableSource
	csv     *exporter.CSVWriter
	xlsx    *exporter.XLSXWriter
	png     *exporter.PNGRenderer
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithMetrics records builds, renders and exports on metrics
func WithMetrics(metrics *infrastructure.BusinessMetrics) DashboardOption {
	return func(s *DashboardService) {
		s.metrics = metrics
	}
}

// WithTracer sets the tracer for dashboard spans
func WithTracer(tracer trace.Tracer) DashboardOption {
	return func(s *DashboardService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithImageSize sets the PNG dimensions
func WithImageSize(width, height int) DashboardOption {
	return func(s *DashboardService) {
		s.png = exporter.NewPNGRenderer(width, height)
	}
}

// NewDashboardService creates a dashboard service over source
func NewDashboardService(source TableSource, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		source: source,
		csv:    exporter.NewCSVWriter(true),
		xlsx:   exporter.NewXLSXWriter(),
		png:    exporter.NewPNGRenderer(0, 0),
		tracer: tracenoop.NewTracerProvider().Tracer("services"),
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the first and last date of the daily table
func (s *DashboardService) Bounds(ctx context.Context) (domain.DateRange, error) {
	tables, err := s.source.Tables(ctx)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	bounds, _ := tables.Bounds()
	return bounds, nil
}

// Build filters both tables to [start, end] and runs every chart builder.
// Empty start or end fall back to the table bounds.
func (s *DashboardService) Build(ctx context.Context, trigger, start, end string) (*domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.build", trace.WithAttributes(
		attribute.String("trigger", trigger),
	))
	defer span.End()

	began := time.Now()
	dashboard, err := s.build(ctx, start, end)
	infrastructure.RecordDashboardBuild(ctx, s.metrics, trigger, time.Since(began), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "dashboard build failed",
			slog.String("trigger", trigger),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("range.start", start),
		attribute.String("range.end", end),
		attribute.Int("rows.daily", dashboard.Rows.Daily),
		attribute.Int("rows.hourly", dashboard.Rows.Hourly),
	)
	s.logger.DebugContext(ctx, "dashboard built",
		slog.String("trigger", trigger),
		slog.Int("daily_rows", dashboard.Rows.Daily),
		slog.Int("hourly_rows", dashboard.Rows.Hourly),
		slog.Duration("duration", time.Since(began)),
	)
	return dashboard, nil
}

func (s *DashboardService) build(ctx context.Context, start, end string) (*domain.Dashboard, error) {
	filtered, rng, bounds, err := s.filtered(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Title:    config.AppTitle,
		Range:    rng,
		Bounds:   bounds,
		Rows:     domain.RowCounts{Daily: len(filtered.Daily), Hourly: len(filtered.Hourly)},
		Sections: charts.Build(filtered),
	}, nil
}

// Chart builds a single chart for the range
func (s *DashboardService) Chart(ctx context.Context, id domain.ChartID, start, end string) (domain.ChartSpec, error) {
	if !id.Valid() {
		return domain.ChartSpec{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	filtered, _, _, err := s.filtered(ctx, start, end)
	if err != nil {
		return domain.ChartSpec{}, err
	}
	spec, _ := charts.BuildChart(id, filtered)
	return spec, nil
}

// RenderChart writes the chart as PNG. Box charts return ErrUnsupportedChart.
func (s *DashboardService) RenderChart(ctx context.Context, w io.Writer, id domain.ChartID, start, end string) error {
	spec, err := s.Chart(ctx, id, start, end)
	if err != nil {
		return err
	}

	err = s.png.Render(w, spec)
	if s.metrics != nil {
		s.metrics.ChartRendersTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("chart", string(id)),
			attribute.Bool("ok", err == nil),
		))
	}
	return err
}

// Export writes the filtered table in the requested format
func (s *DashboardService) Export(ctx context.Context, w io.Writer, table, format, start, end string) error {
	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	filtered, _, _, err := s.filtered(ctx, start, end)
	if err != nil {
		return err
	}

	var t exporter.Table
	switch table {
	case dataprocessing.TableDaily:
		t = exporter.DailyTable(filtered.Daily)
	case dataprocessing.TableHourly:
		t = exporter.HourlyTable(filtered.Hourly)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	if format == FormatXLSX {
		err = s.xlsx.Write(w, t)
	} else {
		err = s.csv.Write(w, t)
	}
	if s.metrics != nil {
		s.metrics.ExportsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("table", table),
			attribute.String("format", format),
		))
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("table", table),
			slog.String("format", format),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("export %s as %s: %w", table, format, err)
	}
	return nil
}

// filtered resolves the range against the table bounds and filters both tables
func (s *DashboardService) filtered(ctx context.Context, start, end string) (*domain.Tables, domain.DateRange, domain.DateRange, error) {
	tables, err := s.source.Tables(ctx)
	if err != nil {
		return nil, domain.DateRange{}, domain.DateRange{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	bounds, _ := tables.Bounds()
	rng, err := ResolveRange(start, end, bounds)
	if err != nil {
		return nil, domain.DateRange{}, domain.DateRange{}, err
	}

	return dataprocessing.FilterTables(tables, rng.Start, rng.End), rng, bounds, nil
}

// ResolveRange parses start and end, filling empty values from bounds.
// start after end is valid and selects nothing.
func ResolveRange(start, end string, bounds domain.DateRange) (domain.DateRange, error) {
	rng := bounds
	if start = strings.TrimSpace(start); start != "" {
		d, err := time.Parse(domain.DateLayout, start)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("%w: start %q is not a YYYY-MM-DD date", ErrInvalidRange, start)
		}
		rng.Start = d
	}
	if end = strings.TrimSpace(end); end != "" {
		d, err := time.Parse(domain.DateLayout, end)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("%w: end %q is not a YYYY-MM-DD date", ErrInvalidRange, end)
		}
		rng.End = d
	}
	return rng, nil
}
