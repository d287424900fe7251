package charts

import (
	"maps"
	"slices"
	"sort"

	"bikepulse/pkg/contracts/domain"
)

// Chart titles
const (
	TitleTrend    = "Daily Bike Rentals"
	TitleSeasonal = "Average Bike Rentals by Season"
	TitleHourly   = "Hourly Rental Pattern: Weekdays vs Weekends"
	TitleWeather  = "Impact of Weather on Bike Rentals"
	TitleWeekday  = "Rental Distribution by Day of Week"
)

// Hourly series names, keyed by the working-day flag
const (
	SeriesWeekend = "Weekend/Holiday"
	SeriesWeekday = "Weekday"
)

// ModeLines draws a series as connected lines
const ModeLines = "lines"

var (
	axisDate    = domain.Axis{Field: "dteday", Title: "Date"}
	axisSeason  = domain.Axis{Field: "season", Title: "Season"}
	axisHour    = domain.Axis{Field: "hr", Title: "Hour of Day"}
	axisWeather = domain.Axis{Field: "weathersit", Title: "Weather Situation"}
	axisWeekday = domain.Axis{Field: "day_of_week", Title: "Day of Week"}
	axisRentals = domain.Axis{Field: "cnt", Title: "Number of Rentals"}
	axisAverage = domain.Axis{Field: "cnt", Title: "Average Number of Rentals"}
)

// Trend plots the daily count against the date, in row order
func Trend(rows []domain.DailyRecord) domain.ChartSpec {
	points := make([]domain.Point, 0, len(rows))
	for _, r := range rows {
		points = append(points, domain.Point{X: r.Date.Format(domain.DateLayout), Y: float64(r.Count)})
	}

	return domain.ChartSpec{
		ID:     domain.ChartTrend,
		Kind:   domain.ChartKindLine,
		Title:  TitleTrend,
		XAxis:  axisDate,
		YAxis:  axisRentals,
		Series: []domain.Series{{Name: "cnt", Mode: ModeLines, Points: points}},
	}
}

// SeasonalAverage averages the daily count per season label and sorts the
// seasons by that average, highest first. Ties are ordered by label.
// Rows with no season label are left out.
func SeasonalAverage(rows []domain.DailyRecord) domain.ChartSpec {
	means := newMeanGroups()
	for _, r := range rows {
		if r.Season == "" {
			continue
		}
		means.add(r.Season, r.Count)
	}

	labels := slices.Sorted(maps.Keys(means))
	sort.SliceStable(labels, func(i, j int) bool {
		return means.mean(labels[i]) > means.mean(labels[j])
	})

	points := make([]domain.Point, 0, len(labels))
	for _, label := range labels {
		points = append(points, domain.Point{X: label, Y: means.mean(label)})
	}

	return domain.ChartSpec{
		ID:            domain.ChartSeasonal,
		Kind:          domain.ChartKindBar,
		Title:         TitleSeasonal,
		XAxis:         axisSeason,
		YAxis:         axisAverage,
		Series:        []domain.Series{{Name: "cnt", Points: points}},
		CategoryOrder: labels,
	}
}

// HourlyPattern averages the hourly count per (hour, working day) and returns
// one series per working-day flag with hours ascending. Both series are always
// present. A series with rows gets a point for every hour seen in either
// series, marked Missing where it has no rows for that hour.
func HourlyPattern(rows []domain.HourlyRecord) domain.ChartSpec {
	type key struct {
		hour    int
		working bool
	}
	sums := make(map[key]*meanAcc)
	var seen [24]bool
	seenBy := map[bool]bool{}
	for _, r := range rows {
		k := key{hour: r.Hour, working: r.WorkingDay}
		acc, ok := sums[k]
		if !ok {
			acc = &meanAcc{}
			sums[k] = acc
		}
		acc.add(r.Count)
		if r.Hour >= 0 && r.Hour < 24 {
			seen[r.Hour] = true
		}
		seenBy[r.WorkingDay] = true
	}

	points := func(working bool) []domain.Point {
		out := make([]domain.Point, 0, 24)
		if !seenBy[working] {
			return out
		}
		for hour := 0; hour < 24; hour++ {
			if !seen[hour] {
				continue
			}
			if acc, ok := sums[key{hour: hour, working: working}]; ok {
				out = append(out, domain.Point{X: hour, Y: acc.mean()})
			} else {
				out = append(out, domain.Point{X: hour, Missing: true})
			}
		}
		return out
	}
	weekend := points(false)
	weekday := points(true)

	return domain.ChartSpec{
		ID:    domain.ChartHourly,
		Kind:  domain.ChartKindLine,
		Title: TitleHourly,
		XAxis: axisHour,
		YAxis: axisAverage,
		Series: []domain.Series{
			{Name: SeriesWeekend, Mode: ModeLines, Points: weekend},
			{Name: SeriesWeekday, Mode: ModeLines, Points: weekday},
		},
	}
}

// WeatherImpact builds one box per weather label in code order.
// Rows with no weather label form a trailing Unlabeled box.
func WeatherImpact(rows []domain.DailyRecord) domain.ChartSpec {
	groups := newValueGroups()
	for _, r := range rows {
		label := r.Weather
		if label == "" {
			label = domain.UnlabeledCategory
		}
		groups.add(label, r.Count)
	}

	order := groups.keysIn(append(append([]string{}, domain.WeatherOrder...), domain.UnlabeledCategory))
	return domain.ChartSpec{
		ID:            domain.ChartWeather,
		Kind:          domain.ChartKindBox,
		Title:         TitleWeather,
		XAxis:         axisWeather,
		YAxis:         axisRentals,
		Boxes:         groups.boxes(order),
		CategoryOrder: order,
	}
}

// WeekdayDistribution builds one box per day of the week derived from the date.
// The category axis always runs Monday to Sunday.
func WeekdayDistribution(rows []domain.DailyRecord) domain.ChartSpec {
	groups := newValueGroups()
	for _, r := range rows {
		groups.add(r.Date.Weekday().String(), r.Count)
	}

	return domain.ChartSpec{
		ID:            domain.ChartWeekday,
		Kind:          domain.ChartKindBox,
		Title:         TitleWeekday,
		XAxis:         axisWeekday,
		YAxis:         axisRentals,
		Boxes:         groups.boxes(groups.keysIn(domain.WeekdayOrder)),
		CategoryOrder: append([]string(nil), domain.WeekdayOrder...),
	}
}

type meanAcc struct {
	sum   float64
	count int
}

func (a *meanAcc) add(v int) {
	a.sum += float64(v)
	a.count++
}

func (a *meanAcc) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

type meanGroups map[string]*meanAcc

func newMeanGroups() meanGroups {
	return make(meanGroups)
}

func (g meanGroups) add(label string, v int) {
	acc, ok := g[label]
	if !ok {
		acc = &meanAcc{}
		g[label] = acc
	}
	acc.add(v)
}

func (g meanGroups) mean(label string) float64 {
	if acc, ok := g[label]; ok {
		return acc.mean()
	}
	return 0
}

type valueGroups map[string][]float64

func newValueGroups() valueGroups {
	return make(valueGroups)
}

func (g valueGroups) add(label string, v int) {
	g[label] = append(g[label], float64(v))
}

// keysIn returns the labels of order that have at least one row
func (g valueGroups) keysIn(order []string) []string {
	keys := make([]string, 0, len(g))
	for _, label := range order {
		if _, ok := g[label]; ok {
			keys = append(keys, label)
		}
	}
	return keys
}

func (g valueGroups) boxes(order []string) []domain.Box {
	boxes := make([]domain.Box, 0, len(order))
	for _, label := range order {
		boxes = append(boxes, Summarize(label, g[label]))
	}
	return boxes
}
