package dataprocessing

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/domain"
)

// TableLoader produces the two tables
type TableLoader interface {
	Load(ctx context.Context) (*domain.Tables, error)
}

// Store memoizes one load for the lifetime of the process.
// The first call to Tables loads; every later call returns the same result.
type Store struct {
	loader  TableLoader
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	once     sync.Once
	tables   *domain.Tables
	err      error
	loaded   atomic.Bool
	loadedAt time.Time
}

// NewStore creates a store around loader. metrics may be nil.
func NewStore(loader TableLoader, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Store {
	return &Store{
		loader:  loader,
		logger:  infrastructure.WithComponent(logger, "store"),
		metrics: metrics,
	}
}

// Tables returns the loaded tables, loading them on first use.
// A failed load is remembered and returned to every caller.
func (s *Store) Tables(ctx context.Context) (*domain.Tables, error) {
	s.once.Do(func() {
		start := time.Now()
		s.tables, s.err = s.loader.Load(ctx)
		duration := time.Since(start)

		daily, hourly := 0, 0
		if s.tables != nil {
			daily, hourly = len(s.tables.Daily), len(s.tables.Hourly)
		}
		infrastructure.RecordDatasetLoad(ctx, s.metrics, duration, daily, hourly, s.err)

		if s.err != nil {
			s.tables = nil
			s.logger.ErrorContext(ctx, "dataset load failed",
				slog.String("error", s.err.Error()),
				slog.Duration("duration", duration),
			)
			return
		}

		s.loadedAt = time.Now()
		s.loaded.Store(true)
		s.logger.InfoContext(ctx, "dataset ready",
			slog.Int("daily_rows", daily),
			slog.Int("hourly_rows", hourly),
			slog.Duration("duration", duration),
		)
	})
	return s.tables, s.err
}

// Ready reports whether a successful load has completed
func (s *Store) Ready() bool {
	return s.loaded.Load()
}

// LoadedAt returns when the tables became available, or the zero time
func (s *Store) LoadedAt() time.Time {
	if !s.Ready() {
		return time.Time{}
	}
	return s.loadedAt
}
