package exporter

import "bikepulse/pkg/contracts/domain"

// Table is a header row plus typed rows, ready for any writer
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

var dailyHeaders = []string{
	"instant", "dteday", "season", "season_label", "yr", "mnth", "holiday", "weekday",
	"workingday", "weathersit", "weather_label", "temp", "atemp", "hum", "windspeed",
	"casual", "registered", "cnt",
}

// DailyTable converts daily records, keeping the source column names
func DailyTable(rows []domain.DailyRecord) Table {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, dailyCells(r))
	}
	return Table{Name: "daily", Headers: dailyHeaders, Rows: out}
}

// HourlyTable converts hourly records; the hr column follows mnth as in the source
func HourlyTable(rows []domain.HourlyRecord) Table {
	headers := make([]string, 0, len(dailyHeaders)+1)
	headers = append(headers, dailyHeaders[:6]...)
	headers = append(headers, "hr")
	headers = append(headers, dailyHeaders[6:]...)

	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		cells := dailyCells(r.DailyRecord)
		row := make([]any, 0, len(cells)+1)
		row = append(row, cells[:6]...)
		row = append(row, r.Hour)
		row = append(row, cells[6:]...)
		out = append(out, row)
	}
	return Table{Name: "hourly", Headers: headers, Rows: out}
}

func dailyCells(r domain.DailyRecord) []any {
	return []any{
		r.Instant, r.Date, r.SeasonCode, r.Season, r.Year, r.Month, r.Holiday, r.Weekday,
		r.WorkingDay, r.WeatherCode, r.Weather, r.Temp, r.ATemp, r.Humidity, r.WindSpeed,
		r.Casual, r.Registered, r.Count,
	}
}
