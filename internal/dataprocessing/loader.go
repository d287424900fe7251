package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	apperrors "bikepulse/internal/errors"
	"bikepulse/pkg/contracts/domain"
)

// maxSourceBytes bounds a single fetched source
const maxSourceBytes = 64 << 20

// Sources names the two CSV resources. Each is an http(s) URL or a local path.
type Sources struct {
	Daily  string
	Hourly string
}

// Loader fetches and parses both tables
type Loader struct {
	sources Sources
	client  *http.Client
	timeout time.Duration
	strict  bool
	logger  *slog.Logger
	tracer  trace.Tracer

	maxBytes int64
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for URL sources
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithFetchTimeout bounds the whole load. Zero disables the bound.
func WithFetchTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithStrictCodes makes unmapped season and weather codes a parse error
func WithStrictCodes(strict bool) LoaderOption {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithLoaderLogger sets the logger
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTracer sets the tracer for dataset spans
func WithTracer(tracer trace.Tracer) LoaderOption {
	return func(l *Loader) {
		if tracer != nil {
			l.tracer = tracer
		}
	}
}

// NewLoader creates a loader for the given sources
func NewLoader(sources Sources, opts ...LoaderOption) *Loader {
	l := &Loader{
		sources:  sources,
		client:   http.DefaultClient,
		maxBytes: maxSourceBytes,
		logger:   slog.Default(),
		tracer:   tracenoop.NewTracerProvider().Tracer("dataprocessing"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(slog.String("component", "loader"))
	return l
}

// Load fetches both sources concurrently and parses them.
// Either failure fails the whole load.
func (l *Loader) Load(ctx context.Context) (*domain.Tables, error) {
	ctx, span := l.tracer.Start(ctx, "dataset.load")
	defer span.End()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	opts := ParseOptions{StrictCodes: l.strict, Logger: l.logger}
	tables := &domain.Tables{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := l.fetch(gctx, TableDaily, l.sources.Daily)
		if err != nil {
			return err
		}
		tables.Daily, err = ParseDaily(bytes.NewReader(data), opts)
		return err
	})
	g.Go(func() error {
		data, err := l.fetch(gctx, TableHourly, l.sources.Hourly)
		if err != nil {
			return err
		}
		tables.Hourly, err = ParseHourly(bytes.NewReader(data), opts)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("daily.rows", len(tables.Daily)),
		attribute.Int("hourly.rows", len(tables.Hourly)),
	)
	l.logger.InfoContext(ctx, "datasets loaded",
		slog.Int("daily_rows", len(tables.Daily)),
		slog.Int("hourly_rows", len(tables.Hourly)),
	)
	return tables, nil
}

// fetch reads one source into memory
func (l *Loader) fetch(ctx context.Context, table, source string) ([]byte, error) {
	ctx, span := l.tracer.Start(ctx, "dataset.fetch", trace.WithAttributes(
		attribute.String("table", table),
		attribute.String("source", source),
	))
	defer span.End()

	start := time.Now()
	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = l.fetchURL(ctx, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("table", table)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.ErrorContext(ctx, "fetch failed",
			slog.String("table", table),
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("bytes", len(data)))
	l.logger.DebugContext(ctx, "source fetched",
		slog.String("table", table),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)),
	)
	return data, nil
}

func (l *Loader) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("invalid source url %s", url), err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("fetch %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("fetch %s", url),
			fmt.Errorf("unexpected status %s", resp.Status)).
			WithContext("status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("read %s", url), err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, apperrors.NewParsingError(fmt.Sprintf("source %s exceeds %d bytes", url, l.maxBytes), nil).
			WithContext("limit", l.maxBytes)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(strings.TrimPrefix(path, "file://"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound, fmt.Sprintf("source %s not found", path), err)
		}
		return nil, apperrors.NewAppError(apperrors.ErrTypeNetwork, fmt.Sprintf("read %s", path), err)
	}
	return data, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
