package domain

import (
	"time"
)

// Season labels
const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
	SeasonWinter = "Winter"
)

// Weather labels
const (
	WeatherClear     = "Clear"
	WeatherMist      = "Mist"
	WeatherLightSnow = "Light Snow/Rain"
	WeatherHeavyRain = "Heavy Rain/Snow"
)

// UnlabeledCategory is the display name used for rows whose code has no label.
const UnlabeledCategory = "Unlabeled"

var seasonLabels = map[int]string{
	1: SeasonSpring,
	2: SeasonSummer,
	3: SeasonFall,
	4: SeasonWinter,
}

var weatherLabels = map[int]string{
	1: WeatherClear,
	2: WeatherMist,
	3: WeatherLightSnow,
	4: WeatherHeavyRain,
}

// WeatherOrder is the canonical code order of weather labels.
var WeatherOrder = []string{WeatherClear, WeatherMist, WeatherLightSnow, WeatherHeavyRain}

// WeekdayOrder is the fixed Monday to Sunday category order.
var WeekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// SeasonLabel maps a season code to its label.
// ok is false for codes outside 1..4 and the label is empty.
func SeasonLabel(code int) (label string, ok bool) {
	label, ok = seasonLabels[code]
	return label, ok
}

// WeatherLabel maps a weather situation code to its label.
func WeatherLabel(code int) (label string, ok bool) {
	label, ok = weatherLabels[code]
	return label, ok
}

// Dated is implemented by every row that can be filtered by calendar date.
type Dated interface {
	Day() time.Time
}

// DailyRecord is one row of the daily table.
type DailyRecord struct {
	Instant     int       `json:"instant"`
	Date        time.Time `json:"date"`
	SeasonCode  int       `json:"season_code"`
	Season      string    `json:"season"`
	Year        int       `json:"yr"`
	Month       int       `json:"mnth"`
	Holiday     bool      `json:"holiday"`
	Weekday     int       `json:"weekday"`
	WorkingDay  bool      `json:"workingday"`
	WeatherCode int       `json:"weather_code"`
	Weather     string    `json:"weather"`
	Temp        float64   `json:"temp"`
	ATemp       float64   `json:"atemp"`
	Humidity    float64   `json:"hum"`
	WindSpeed   float64   `json:"windspeed"`
	Casual      int       `json:"casual"`
	Registered  int       `json:"registered"`
	Count       int       `json:"cnt"`
}

// Day returns the calendar date of the row.
func (r DailyRecord) Day() time.Time { return r.Date }

// HourlyRecord is one row of the hourly table.
type HourlyRecord struct {
	DailyRecord
	Hour int `json:"hr"`
}

// Tables holds both datasets. Tables are never mutated after load.
type Tables struct {
	Daily  []DailyRecord  `json:"daily"`
	Hourly []HourlyRecord `json:"hourly"`
}

// DateRange is an inclusive calendar date interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DateLayout is the calendar date format used on the wire and in the CSV files.
const DateLayout = "2006-01-02"

// MarshalJSON renders both bounds as plain dates.
func (d DateRange) MarshalJSON() ([]byte, error) {
	return []byte(`{"start":"` + d.Start.Format(DateLayout) + `","end":"` + d.End.Format(DateLayout) + `"}`), nil
}

// Bounds returns the min and max date of the daily table.
// ok is false when the table is empty.
func (t *Tables) Bounds() (DateRange, bool) {
	if t == nil || len(t.Daily) == 0 {
		return DateRange{}, false
	}
	r := DateRange{Start: t.Daily[0].Date, End: t.Daily[0].Date}
	for _, row := range t.Daily[1:] {
		if row.Date.Before(r.Start) {
			r.Start = row.Date
		}
		if row.Date.After(r.End) {
			r.End = row.Date
		}
	}
	return r, true
}
