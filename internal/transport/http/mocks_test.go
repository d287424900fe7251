package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"bikepulse/internal/services"
	"bikepulse/pkg/contracts/domain"
)

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) Bounds(ctx context.Context) (domain.DateRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DateRange), args.Error(1)
}

func (m *mockDashboardService) Build(ctx context.Context, trigger, start, end string) (*domain.Dashboard, error) {
	args := m.Called(ctx, trigger, start, end)
	dashboard, _ := args.Get(0).(*domain.Dashboard)
	return dashboard, args.Error(1)
}

func (m *mockDashboardService) Chart(ctx context.Context, id domain.ChartID, start, end string) (domain.ChartSpec, error) {
	args := m.Called(ctx, id, start, end)
	return args.Get(0).(domain.ChartSpec), args.Error(1)
}

func (m *mockDashboardService) RenderChart(ctx context.Context, w io.Writer, id domain.ChartID, start, end string) error {
	args := m.Called(ctx, w, id, start, end)
	if payload, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(payload)
	}
	return args.Error(1)
}

func (m *mockDashboardService) Export(ctx context.Context, w io.Writer, table, format, start, end string) error {
	args := m.Called(ctx, w, table, format, start, end)
	if payload, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(payload)
	}
	return args.Error(1)
}

type mockHealthService struct {
	mock.Mock
}

func (m *mockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
