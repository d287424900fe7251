package charts

import "bikepulse/pkg/contracts/domain"

// Section subheaders in page order
const (
	SubheaderTrend    = "Trend of Bike Rentals Over Time"
	SubheaderSeasonal = "Average Bike Rentals by Season"
	SubheaderHourly   = "Hourly Rental Pattern: Weekdays vs Weekends"
	SubheaderWeather  = "Impact of Weather on Bike Rentals"
	SubheaderWeekday  = "Rental Distribution by Day of Week"
)

var subheaders = map[domain.ChartID]string{
	domain.ChartTrend:    SubheaderTrend,
	domain.ChartSeasonal: SubheaderSeasonal,
	domain.ChartHourly:   SubheaderHourly,
	domain.ChartWeather:  SubheaderWeather,
	domain.ChartWeekday:  SubheaderWeekday,
}

// BuildChart runs the builder for id. ok is false for an unknown id.
func BuildChart(id domain.ChartID, tables *domain.Tables) (spec domain.ChartSpec, ok bool) {
	if tables == nil {
		tables = &domain.Tables{}
	}

	switch id {
	case domain.ChartTrend:
		return Trend(tables.Daily), true
	case domain.ChartSeasonal:
		return SeasonalAverage(tables.Daily), true
	case domain.ChartHourly:
		return HourlyPattern(tables.Hourly), true
	case domain.ChartWeather:
		return WeatherImpact(tables.Daily), true
	case domain.ChartWeekday:
		return WeekdayDistribution(tables.Daily), true
	}
	return domain.ChartSpec{}, false
}

// Build runs all five builders and returns the page sections in order
func Build(tables *domain.Tables) []domain.Section {
	sections := make([]domain.Section, 0, len(domain.ChartIDs))
	for _, id := range domain.ChartIDs {
		spec, _ := BuildChart(id, tables)
		sections = append(sections, domain.Section{Subheader: subheaders[id], Chart: spec})
	}
	return sections
}
