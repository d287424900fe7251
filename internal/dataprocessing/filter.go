package dataprocessing

import (
	"time"

	"bikepulse/pkg/contracts/domain"
)

// FilterByDate returns the rows whose calendar date lies in [start, end].
// Order is preserved and rows is not modified. start after end yields an empty slice.
func FilterByDate[T domain.Dated](rows []T, start, end time.Time) []T {
	lo, hi := calendarDate(start), calendarDate(end)
	out := make([]T, 0)
	if lo.After(hi) {
		return out
	}
	for _, row := range rows {
		d := calendarDate(row.Day())
		if d.Before(lo) || d.After(hi) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FilterTables applies the same range to both tables
func FilterTables(tables *domain.Tables, start, end time.Time) *domain.Tables {
	if tables == nil {
		return &domain.Tables{Daily: []domain.DailyRecord{}, Hourly: []domain.HourlyRecord{}}
	}
	return &domain.Tables{
		Daily:  FilterByDate(tables.Daily, start, end),
		Hourly: FilterByDate(tables.Hourly, start, end),
	}
}

// calendarDate drops the clock and zone, keeping the wall-clock date
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
