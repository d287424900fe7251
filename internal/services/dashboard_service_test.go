package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/charts"
	"bikepulse/internal/config"
	"bikepulse/internal/infrastructure"
	"bikepulse/internal/shared/testutil"
	"bikepulse/pkg/contracts/domain"
)

func newTestService(t *testing.T) (*DashboardService, *MockTableSource) {
	t.Helper()
	source := &MockTableSource{}
	source.On("Tables", mock.Anything).Return(testutil.SampleTables(t), nil)
	logger, _ := testutil.NewTestLogger(t)

	providers := infrastructure.NoopProviders(logger)
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	return NewDashboardService(source, logger, WithMetrics(metrics), WithTracer(providers.Tracer)), source
}

func TestDashboardService_Build(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		end        string
		wantErr    error
		wantDaily  int
		wantHourly int
		wantStart  string
		wantEnd    string
	}{
		{
			name:       "defaults to bounds",
			wantDaily:  7,
			wantHourly: 6,
			wantStart:  "2011-01-01",
			wantEnd:    "2011-01-07",
		},
		{
			name:       "explicit range",
			start:      "2011-01-02",
			end:        "2011-01-03",
			wantDaily:  2,
			wantHourly: 4,
			wantStart:  "2011-01-02",
			wantEnd:    "2011-01-03",
		},
		{
			name:       "only end given",
			end:        "2011-01-01",
			wantDaily:  1,
			wantHourly: 2,
			wantStart:  "2011-01-01",
			wantEnd:    "2011-01-01",
		},
		{
			name:      "start after end selects nothing",
			start:     "2011-01-05",
			end:       "2011-01-01",
			wantStart: "2011-01-05",
			wantEnd:   "2011-01-01",
		},
		{
			name:    "malformed start",
			start:   "01/05/2011",
			wantErr: ErrInvalidRange,
		},
		{
			name:    "malformed end",
			end:     "2011-13-01",
			wantErr: ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			dashboard, err := svc.Build(context.Background(), TriggerHTTP, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, dashboard)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, config.AppTitle, dashboard.Title)
			assert.Equal(t, tt.wantDaily, dashboard.Rows.Daily)
			assert.Equal(t, tt.wantHourly, dashboard.Rows.Hourly)
			assert.Equal(t, tt.wantStart, dashboard.Range.Start.Format(domain.DateLayout))
			assert.Equal(t, tt.wantEnd, dashboard.Range.End.Format(domain.DateLayout))
			assert.Equal(t, "2011-01-01", dashboard.Bounds.Start.Format(domain.DateLayout))
			assert.Equal(t, "2011-01-07", dashboard.Bounds.End.Format(domain.DateLayout))
			require.Len(t, dashboard.Sections, 5)
			assert.Equal(t, charts.SubheaderTrend, dashboard.Sections[0].Subheader)
		})
	}
}

func TestDashboardService_SourceFailure(t *testing.T) {
	loadErr := errors.New("fetch failed")
	source := &MockTableSource{}
	source.On("Tables", mock.Anything).Return(nil, loadErr)
	logger, logs := testutil.NewTestLogger(t)
	svc := NewDashboardService(source, logger)

	_, err := svc.Build(context.Background(), TriggerWebSocket, "", "")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, loadErr)
	assert.True(t, logs.ContainsMessage("dashboard build failed"))

	_, err = svc.Bounds(context.Background())
	assert.ErrorIs(t, err, loadErr)
}

func TestDashboardService_Chart(t *testing.T) {
	svc, _ := newTestService(t)

	spec, err := svc.Chart(context.Background(), domain.ChartWeekday, "2011-01-03", "2011-01-04")
	require.NoError(t, err)
	assert.Equal(t, domain.ChartWeekday, spec.ID)
	require.Len(t, spec.Boxes, 2)
	assert.Equal(t, "Monday", spec.Boxes[0].Category)
	assert.Equal(t, "Tuesday", spec.Boxes[1].Category)

	_, err = svc.Chart(context.Background(), "pie", "", "")
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestDashboardService_RenderChart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.RenderChart(ctx, &buf, domain.ChartTrend, "", ""))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	assert.ErrorIs(t, svc.RenderChart(ctx, &buf, domain.ChartWeather, "", ""), ErrUnsupportedChart)
	assert.ErrorIs(t, svc.RenderChart(ctx, &buf, domain.ChartSeasonal, "2012-01-01", "2012-01-02"), ErrNotEnoughData)
}

func TestDashboardService_Export(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, "daily", "CSV", "2011-01-02", "2011-01-02"))
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2011-01-02", records[1][1])

	buf.Reset()
	require.NoError(t, svc.Export(ctx, &buf, "hourly", FormatXLSX, "", ""))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))

	assert.ErrorIs(t, svc.Export(ctx, &buf, "weekly", FormatCSV, "", ""), ErrUnknownTable)
	assert.ErrorIs(t, svc.Export(ctx, &buf, "daily", "json", "", ""), ErrUnsupportedFormat)
	assert.ErrorIs(t, svc.Export(ctx, &buf, "daily", FormatCSV, "bad", ""), ErrInvalidRange)
}

func TestResolveRange(t *testing.T) {
	bounds := domain.DateRange{Start: testutil.Date(t, "2011-01-01"), End: testutil.Date(t, "2012-12-31")}

	rng, err := ResolveRange(" 2011-06-01 ", "", bounds)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(t, "2011-06-01"), rng.Start)
	assert.Equal(t, bounds.End, rng.End)

	_, err = ResolveRange("", "tomorrow", bounds)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
