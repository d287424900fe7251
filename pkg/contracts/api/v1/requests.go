// Package api contains API contract definitions for the bike sharing dashboard.
// Version v1 represents the current stable API version.
package api

import (
	"bikepulse/pkg/contracts/domain"
)

// RangeQuery is the date range carried by dashboard, chart and export requests.
// Empty values fall back to the dataset bounds.
type RangeQuery struct {
	Start string `json:"start" query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// ChartRequest selects one chart for a range
type ChartRequest struct {
	RangeQuery
	Chart domain.ChartID `json:"chart" param:"chart" validate:"required,oneof=trend seasonal hourly weather weekday"`
}

// ExportRequest selects a table and a file format for a range
type ExportRequest struct {
	RangeQuery
	Table  string `json:"table" param:"table" validate:"required,oneof=daily hourly"`
	Format string `json:"format" param:"format" validate:"required,oneof=csv xlsx"`
}

// DashboardResponse wraps a dashboard view
type DashboardResponse struct {
	Status string           `json:"status"`
	Data   domain.Dashboard `json:"data"`
}

// RangeResponse reports the selectable date bounds
type RangeResponse struct {
	Status string           `json:"status"`
	Data   domain.DateRange `json:"data"`
}
