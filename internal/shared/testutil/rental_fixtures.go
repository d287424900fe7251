package testutil

import (
	"testing"
	"time"

	"bikepulse/pkg/contracts/domain"
)

// DailyCSV is a small day table covering two weeks of January 2011
const DailyCSV = `instant,dteday,season,yr,mnth,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt
1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,0.805833,0.160446,331,654,985
2,2011-01-02,1,0,1,0,0,0,2,0.363478,0.353739,0.696087,0.248539,131,670,801
3,2011-01-03,1,0,1,0,1,1,1,0.196364,0.189405,0.437273,0.248309,120,1229,1349
4,2011-01-04,1,0,1,0,2,1,1,0.2,0.212122,0.590435,0.160296,108,1454,1562
5,2011-01-05,1,0,1,0,3,1,1,0.226957,0.22927,0.436957,0.1869,82,1518,1600
6,2011-01-06,1,0,1,0,4,1,1,0.204348,0.233209,0.518261,0.0895652,88,1518,1606
7,2011-01-07,1,0,1,0,5,1,2,0.196522,0.208839,0.498696,0.168726,148,1362,1510
`

// HourlyCSV is a small hour table for the first two days of DailyCSV and one weekday
const HourlyCSV = `instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt
1,2011-01-01,1,0,1,0,0,6,0,1,0.24,0.2879,0.81,0,3,13,16
2,2011-01-01,1,0,1,1,0,6,0,1,0.22,0.2727,0.8,0,8,32,40
3,2011-01-02,1,0,1,0,0,0,0,2,0.46,0.4545,0.88,0.2985,4,13,17
4,2011-01-02,1,0,1,1,0,0,0,2,0.44,0.4394,0.94,0.2537,1,16,17
5,2011-01-03,1,0,1,0,0,1,1,1,0.22,0.197,0.44,0.3582,0,5,5
6,2011-01-03,1,0,1,1,0,1,1,1,0.2,0.1667,0.44,0.4179,0,2,2
`

// Date parses a YYYY-MM-DD date and fails the test on error
func Date(t testing.TB, value string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", value, err)
	}
	return d
}

// DailyRow builds a daily record with labels resolved from the codes
func DailyRow(t testing.TB, date string, season, weather, weekday int, workingDay bool, count int) domain.DailyRecord {
	t.Helper()
	seasonLabel, _ := domain.SeasonLabel(season)
	weatherLabel, _ := domain.WeatherLabel(weather)
	return domain.DailyRecord{
		Date:        Date(t, date),
		SeasonCode:  season,
		Season:      seasonLabel,
		WeatherCode: weather,
		Weather:     weatherLabel,
		Weekday:     weekday,
		WorkingDay:  workingDay,
		Count:       count,
	}
}

// HourlyRow builds an hourly record for the given date and hour
func HourlyRow(t testing.TB, date string, hour int, workingDay bool, count int) domain.HourlyRecord {
	t.Helper()
	return domain.HourlyRecord{
		DailyRecord: DailyRow(t, date, 1, 1, 0, workingDay, count),
		Hour:        hour,
	}
}

// SampleTables returns typed tables matching DailyCSV and HourlyCSV
func SampleTables(t testing.TB) *domain.Tables {
	t.Helper()
	return &domain.Tables{
		Daily: []domain.DailyRecord{
			DailyRow(t, "2011-01-01", 1, 2, 6, false, 985),
			DailyRow(t, "2011-01-02", 1, 2, 0, false, 801),
			DailyRow(t, "2011-01-03", 1, 1, 1, true, 1349),
			DailyRow(t, "2011-01-04", 1, 1, 2, true, 1562),
			DailyRow(t, "2011-01-05", 1, 1, 3, true, 1600),
			DailyRow(t, "2011-01-06", 1, 1, 4, true, 1606),
			DailyRow(t, "2011-01-07", 1, 2, 5, true, 1510),
		},
		Hourly: []domain.HourlyRecord{
			HourlyRow(t, "2011-01-01", 0, false, 16),
			HourlyRow(t, "2011-01-01", 1, false, 40),
			HourlyRow(t, "2011-01-02", 0, false, 17),
			HourlyRow(t, "2011-01-02", 1, false, 17),
			HourlyRow(t, "2011-01-03", 0, true, 5),
			HourlyRow(t, "2011-01-03", 1, true, 2),
		},
	}
}
