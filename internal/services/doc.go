// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP and websocket handlers and the data packages, so the
// handlers stay thin and the recomputation rules live in one place.
//
// # Available Services
//
//   - DashboardService: resolves a date range, filters the tables and builds
//     the chart specs, PNG images and table exports
//   - HealthService: health, readiness, liveness and version reports
//
// # Common Service Pattern
//
//	source := dataprocessing.NewStore(loader, logger, metrics)
//	svc := services.NewDashboardService(source, logger, services.WithMetrics(metrics))
//
//	dashboard, err := svc.Build(ctx, services.TriggerHTTP, "2011-01-01", "2011-12-31")
//
// # Error Handling
//
// Services return sentinel errors that handlers map to HTTP problems:
//
//   - ErrInvalidRange for a malformed start or end date
//   - ErrUnknownChart, ErrUnknownTable and ErrUnsupportedFormat for bad selectors
//   - ErrUnsupportedChart and ErrNotEnoughData when a chart cannot be drawn
//   - ErrServiceUnavailable when the tables failed to load
//
// # Testing
//
// Services are tested against fakes of their small interfaces:
//
//	source := &MockTableSource{}
//	source.On("Tables", mock.Anything).Return(testutil.SampleTables(t), nil)
package services
