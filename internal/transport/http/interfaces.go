package http

import (
	"context"
	"io"

	"bikepulse/internal/services"
	"bikepulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Bounds(ctx context.Context) (domain.DateRange, error)
	Build(ctx context.Context, trigger, start, end string) (*domain.Dashboard, error)
	Chart(ctx context.Context, id domain.ChartID, start, end string) (domain.ChartSpec, error)
	RenderChart(ctx context.Context, w io.Writer, id domain.ChartID, start, end string) error
	Export(ctx context.Context, w io.Writer, table, format, start, end string) error
}

// HealthServiceInterface defines the health operations the handlers need
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

var (
	_ DashboardServiceInterface = (*services.DashboardService)(nil)
	_ HealthServiceInterface    = (*services.HealthService)(nil)
)
