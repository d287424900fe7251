// Package http implements the HTTP handlers of the bike sharing dashboard.
// Handlers stay thin: they bind and validate the request, call a service
// and translate the result.
//
// # Routes
//
//	GET  /                              dashboard page
//	GET  /api/dashboard?start=&end=     full dashboard for a date range
//	GET  /api/dashboard/range           selectable date bounds
//	GET  /api/charts/{chart}            one chart spec
//	GET  /api/charts/{chart}.png        one line or bar chart as PNG
//	GET  /api/export/{table}.{format}   filtered daily or hourly rows as csv or xlsx
//	POST /api/log                       client side log entry
//	GET  /api/health[/ready|/live]      health probes
//	GET  /api/version                   build information
//
// # Error Handling
//
// Service sentinels are mapped to API errors and written as RFC 7807
// problems by the shared ErrorHandler:
//
//	ErrInvalidRange, ErrUnsupportedFormat   400
//	ErrUnknownChart, ErrUnknownTable        404
//	ErrUnsupportedChart, ErrNotEnoughData   422
//	ErrServiceUnavailable                   503
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of the service
// interfaces.
package http
