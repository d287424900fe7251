package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "bikepulse/internal/errors"
	"bikepulse/pkg/contracts/domain"
)

// Column names used by both source tables
const (
	ColInstant    = "instant"
	ColDate       = "dteday"
	ColSeason     = "season"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHour       = "hr"
	ColHoliday    = "holiday"
	ColWeekday    = "weekday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColTemp       = "temp"
	ColATemp      = "atemp"
	ColHumidity   = "hum"
	ColWindSpeed  = "windspeed"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
)

// Table names
const (
	TableDaily  = "daily"
	TableHourly = "hourly"
)

// DailyRequiredColumns must be present in the daily table
var DailyRequiredColumns = []string{ColDate, ColSeason, ColWeather, ColCount}

// HourlyRequiredColumns must be present in the hourly table
var HourlyRequiredColumns = []string{ColDate, ColSeason, ColWeather, ColCount, ColHour, ColWorkingDay}

// ParseOptions controls how coded columns are handled
type ParseOptions struct {
	// StrictCodes rejects season and weather codes with no label
	StrictCodes bool
	Logger      *slog.Logger
}

// ParseDaily reads the daily table
func ParseDaily(r io.Reader, opts ParseOptions) ([]domain.DailyRecord, error) {
	cols, rows, err := readFrame(r, TableDaily, DailyRequiredColumns)
	if err != nil {
		return nil, err
	}

	records := make([]domain.DailyRecord, 0, rows)
	unmapped := 0
	for i := 0; i < rows; i++ {
		rr := &rowReader{table: TableDaily, cols: cols, row: i}
		rec, ok := rr.daily(opts.StrictCodes)
		if rr.err != nil {
			return nil, rr.err
		}
		if !ok {
			unmapped++
		}
		records = append(records, rec)
	}

	logUnmapped(opts.Logger, TableDaily, unmapped)
	return records, nil
}

// ParseHourly reads the hourly table
func ParseHourly(r io.Reader, opts ParseOptions) ([]domain.HourlyRecord, error) {
	cols, rows, err := readFrame(r, TableHourly, HourlyRequiredColumns)
	if err != nil {
		return nil, err
	}

	records := make([]domain.HourlyRecord, 0, rows)
	unmapped := 0
	for i := 0; i < rows; i++ {
		rr := &rowReader{table: TableHourly, cols: cols, row: i}
		daily, ok := rr.daily(opts.StrictCodes)
		hour := rr.integer(ColHour, true)
		if rr.err == nil && (hour < 0 || hour > 23) {
			rr.fail(ColHour, fmt.Errorf("hour %d outside 0..23", hour))
		}
		if rr.err != nil {
			return nil, rr.err
		}
		if !ok {
			unmapped++
		}
		records = append(records, domain.HourlyRecord{DailyRecord: daily, Hour: hour})
	}

	logUnmapped(opts.Logger, TableHourly, unmapped)
	return records, nil
}

// readFrame loads the CSV as an all-string dataframe and returns its columns by name
func readFrame(r io.Reader, table string, required []string) (map[string][]string, int, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, 0, apperrors.NewParsingError(fmt.Sprintf("read %s table", table), df.Err).
			WithContext("table", table)
	}

	cols := make(map[string][]string, df.Ncol())
	for _, name := range df.Names() {
		cols[strings.TrimSpace(name)] = df.Col(name).Records()
	}

	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, 0, apperrors.NewParsingError(
			fmt.Sprintf("%s table is missing required columns: %s", table, strings.Join(missing, ", ")), nil).
			WithContext("table", table).
			WithContext("columns", missing)
	}

	return cols, df.Nrow(), nil
}

func logUnmapped(logger *slog.Logger, table string, count int) {
	if logger == nil || count == 0 {
		return
	}
	logger.Warn("rows with unmapped season or weather codes",
		slog.String("table", table),
		slog.Int("rows", count),
	)
}

// rowReader converts one dataframe row, keeping the first error it hits
type rowReader struct {
	table string
	cols  map[string][]string
	row   int
	err   error
}

// daily reads the columns shared by both tables.
// ok is false when a season or weather code has no label.
// workingday may be blank in the daily table but splits the hourly series.
func (rr *rowReader) daily(strict bool) (domain.DailyRecord, bool) {
	rec := domain.DailyRecord{
		Instant:     rr.integer(ColInstant, false),
		Date:        rr.date(ColDate),
		SeasonCode:  rr.integer(ColSeason, true),
		Year:        rr.integer(ColYear, false),
		Month:       rr.integer(ColMonth, false),
		Holiday:     rr.integer(ColHoliday, false) != 0,
		Weekday:     rr.integer(ColWeekday, false),
		WorkingDay:  rr.integer(ColWorkingDay, rr.table == TableHourly) != 0,
		WeatherCode: rr.integer(ColWeather, true),
		Temp:        rr.float(ColTemp),
		ATemp:       rr.float(ColATemp),
		Humidity:    rr.float(ColHumidity),
		WindSpeed:   rr.float(ColWindSpeed),
		Casual:      rr.integer(ColCasual, false),
		Registered:  rr.integer(ColRegistered, false),
		Count:       rr.integer(ColCount, true),
	}
	if rr.err != nil {
		return rec, true
	}

	if rec.Count < 0 {
		rr.fail(ColCount, fmt.Errorf("negative count %d", rec.Count))
		return rec, true
	}

	seasonLabel, seasonOK := domain.SeasonLabel(rec.SeasonCode)
	weatherLabel, weatherOK := domain.WeatherLabel(rec.WeatherCode)
	rec.Season = seasonLabel
	rec.Weather = weatherLabel

	if strict {
		if !seasonOK {
			rr.fail(ColSeason, fmt.Errorf("unmapped season code %d", rec.SeasonCode))
		} else if !weatherOK {
			rr.fail(ColWeather, fmt.Errorf("unmapped weather code %d", rec.WeatherCode))
		}
	}
	return rec, seasonOK && weatherOK
}

// value returns the trimmed cell, or "" for missing and NaN cells
func (rr *rowReader) value(col string) (string, bool) {
	values, ok := rr.cols[col]
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(values[rr.row])
	if v == "NaN" {
		v = ""
	}
	return v, true
}

func (rr *rowReader) integer(col string, required bool) int {
	if rr.err != nil {
		return 0
	}
	v, ok := rr.value(col)
	if !ok || (v == "" && !required) {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Some exports write integer columns as 1.0
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) {
			rr.fail(col, fmt.Errorf("invalid integer %q", v))
			return 0
		}
		n = int(f)
	}
	return n
}

func (rr *rowReader) float(col string) float64 {
	if rr.err != nil {
		return 0
	}
	v, ok := rr.value(col)
	if !ok || v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		rr.fail(col, fmt.Errorf("invalid number %q", v))
		return 0
	}
	return f
}

func (rr *rowReader) date(col string) time.Time {
	if rr.err != nil {
		return time.Time{}
	}
	v, _ := rr.value(col)
	d, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		rr.fail(col, fmt.Errorf("invalid date %q", v))
		return time.Time{}
	}
	return d
}

func (rr *rowReader) fail(col string, cause error) {
	if rr.err != nil {
		return
	}
	// Header is line 1, so data row i sits on line i+2
	line := rr.row + 2
	rr.err = apperrors.NewParsingError(fmt.Sprintf("%s table line %d column %s", rr.table, line, col), cause).
		WithContext("table", rr.table).
		WithContext("line", line).
		WithContext("column", col)
}
