package domain

import "encoding/json"

// ChartKind defines how a chart is drawn
type ChartKind string

const (
	ChartKindLine ChartKind = "line"
	ChartKindBar  ChartKind = "bar"
	ChartKindBox  ChartKind = "box"
)

// ChartID identifies one of the dashboard charts
type ChartID string

const (
	ChartTrend    ChartID = "trend"
	ChartSeasonal ChartID = "seasonal"
	ChartHourly   ChartID = "hourly"
	ChartWeather  ChartID = "weather"
	ChartWeekday  ChartID = "weekday"
)

// ChartIDs lists all charts in page order.
var ChartIDs = []ChartID{ChartTrend, ChartSeasonal, ChartHourly, ChartWeather, ChartWeekday}

// Valid reports whether id names a known chart.
func (id ChartID) Valid() bool {
	for _, known := range ChartIDs {
		if id == known {
			return true
		}
	}
	return false
}

// Axis binds a record field to a chart axis.
type Axis struct {
	Field string `json:"field"`
	Title string `json:"title"`
}

// Point is one x/y pair. X is a date string, a category label or an hour.
// A Missing point has no y value and breaks a line series.
type Point struct {
	X       any     `json:"x"`
	Y       float64 `json:"y"`
	Missing bool    `json:"-"`
}

type wirePoint struct {
	X any      `json:"x"`
	Y *float64 `json:"y"`
}

// MarshalJSON writes a Missing point with a null y.
func (p Point) MarshalJSON() ([]byte, error) {
	out := wirePoint{X: p.X}
	if !p.Missing {
		y := p.Y
		out.Y = &y
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null y as a Missing point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var in wirePoint
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Point{X: in.X, Missing: in.Y == nil}
	if in.Y != nil {
		p.Y = *in.Y
	}
	return nil
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Mode   string  `json:"mode,omitempty"`
	Points []Point `json:"points"`
}

// Box is the distribution of one boxplot category.
type Box struct {
	Category     string    `json:"category"`
	Values       []float64 `json:"values"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	Mean         float64   `json:"mean"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// ChartSpec is a declarative chart description consumed by the page.
type ChartSpec struct {
	ID            ChartID   `json:"id"`
	Kind          ChartKind `json:"kind"`
	Title         string    `json:"title"`
	XAxis         Axis      `json:"x_axis"`
	YAxis         Axis      `json:"y_axis"`
	Series        []Series  `json:"series,omitempty"`
	Boxes         []Box     `json:"boxes,omitempty"`
	CategoryOrder []string  `json:"category_order,omitempty"`
}

// Empty reports whether the chart carries no data points.
func (c ChartSpec) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return len(c.Boxes) == 0
}

// Section is one titled block of the dashboard page.
type Section struct {
	Subheader string    `json:"subheader"`
	Chart     ChartSpec `json:"chart"`
}

// Dashboard is the complete view for one date range.
type Dashboard struct {
	Title    string    `json:"title"`
	Range    DateRange `json:"range"`
	Bounds   DateRange `json:"bounds"`
	Rows     RowCounts `json:"rows"`
	Sections []Section `json:"sections"`
}

// RowCounts reports how many rows survived the range filter.
type RowCounts struct {
	Daily  int `json:"daily"`
	Hourly int `json:"hourly"`
}
