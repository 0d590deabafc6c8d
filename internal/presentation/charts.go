package presentation

import (
	"sort"

	"github.com/firehistory/backend/internal/pipeline"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartPoint is one categorical value of a series
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is one colored series of a bar chart
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color"`
}

// BarChart is a stacked categorical bar chart
type BarChart struct {
	Title      string        `json:"title"`
	XAxis      string        `json:"x_axis"`
	YAxis      string        `json:"y_axis"`
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

// Heatmap is a zero-filled pivot of counts, Values[band][year]
type Heatmap struct {
	Title  string   `json:"title"`
	XAxis  string   `json:"x_axis"`
	YAxis  string   `json:"y_axis"`
	Years  []string `json:"years"`
	Bands  []int    `json:"bands"`
	Values [][]int  `json:"values"`
}

// ScatterPoint is one circle of a scatter chart
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}

// ScatterChart plots grouped counts as translucent circles
type ScatterChart struct {
	Title   string         `json:"title"`
	XAxis   string         `json:"x_axis"`
	YAxis   string         `json:"y_axis"`
	Color   string         `json:"color"`
	Opacity float64        `json:"opacity"`
	Size    int            `json:"size"`
	Points  []ScatterPoint `json:"points"`
}

// LineSeries holds one measure per year; nil marks an unknown value
type LineSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// LineChart is the annual trend with selectable measures
type LineChart struct {
	Title      string       `json:"title"`
	Available  []string     `json:"available_measures"`
	Selected   []string     `json:"selected_measures"`
	Categories []string     `json:"categories"`
	Series     []LineSeries `json:"series"`
	Message    string       `json:"message,omitempty"`
}

// Analytics is the Analytics tab payload
type Analytics struct {
	NoRecords        bool          `json:"no_records"`
	Message          string        `json:"message,omitempty"`
	ByType           *BarChart     `json:"annual_fires_by_type,omitempty"`
	Heatmap          *Heatmap      `json:"year_distance_heatmap,omitempty"`
	DurationDistance *ScatterChart `json:"duration_distance,omitempty"`
	BurnDistance     *ScatterChart `json:"burn_distance,omitempty"`
	Trend            *LineChart    `json:"annual_trend,omitempty"`
}

// EmptyAnalytics is the payload when no fire survives the filters
func EmptyAnalytics() Analytics {
	return Analytics{NoRecords: true, Message: NoRecordsMessage}
}

// YearTypeBars stacks fire counts per year, one series per fire type
func YearTypeBars(t pipeline.YearTypeTable) *BarChart {
	years := make([]int, 0)
	seenYear := make(map[int]bool)
	types := make([]string, 0)
	counts := make(map[string]map[int]int)
	for _, r := range t {
		if !seenYear[r.IgnitionYear] {
			seenYear[r.IgnitionYear] = true
			years = append(years, r.IgnitionYear)
		}
		if _, ok := counts[r.FireType]; !ok {
			counts[r.FireType] = make(map[int]int)
			types = append(types, r.FireType)
		}
		counts[r.FireType][r.IgnitionYear] += r.Count
	}
	sort.Ints(years)
	sort.Strings(types)

	chart := &BarChart{
		Title:      "Annual Fires by Type",
		XAxis:      "Ignition Year",
		YAxis:      "Count of Fires",
		Categories: make([]string, 0, len(years)),
		Series:     make([]ChartSeries, 0, len(types)),
	}
	for _, y := range years {
		chart.Categories = append(chart.Categories, FormatYear(y))
	}
	for i, typ := range types {
		points := make([]ChartPoint, 0, len(years))
		for _, y := range years {
			points = append(points, ChartPoint{Label: FormatYear(y), Value: float64(counts[typ][y])})
		}
		chart.Series = append(chart.Series, ChartSeries{
			Name:  typ,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return chart
}

// YearDistanceHeatmap pivots counts into distance bands by ignition year
func YearDistanceHeatmap(t pipeline.YearDistanceTable) *Heatmap {
	var years, bands []int
	seenYear, seenBand := make(map[int]bool), make(map[int]bool)
	for _, r := range t {
		if !seenYear[r.IgnitionYear] {
			seenYear[r.IgnitionYear] = true
			years = append(years, r.IgnitionYear)
		}
		if !seenBand[r.DistanceBand] {
			seenBand[r.DistanceBand] = true
			bands = append(bands, r.DistanceBand)
		}
	}
	sort.Ints(years)
	sort.Ints(bands)

	col := make(map[int]int, len(years))
	h := &Heatmap{
		Title: "Count of Fires by Year/Distance from Station",
		XAxis: "Ignition Year",
		YAxis: "Distance from Fire Station (x10Km)",
		Years: make([]string, 0, len(years)),
		Bands: bands,
	}
	for i, y := range years {
		col[y] = i
		h.Years = append(h.Years, FormatYear(y))
	}
	row := make(map[int]int, len(bands))
	h.Values = make([][]int, len(bands))
	for i, b := range bands {
		row[b] = i
		h.Values[i] = make([]int, len(years))
	}
	for _, r := range t {
		h.Values[row[r.DistanceBand]][col[r.IgnitionYear]] += r.Count
	}
	return h
}

// DurationDistanceScatter plots fire lifetime against distance from the station
func DurationDistanceScatter(t pipeline.DurationDistanceTable) *ScatterChart {
	c := &ScatterChart{
		Title:   "Breakdown by Duration & Distance",
		XAxis:   "Fire Duration (Days)",
		YAxis:   "Distance from Station (Km)",
		Color:   "blue",
		Opacity: 0.3,
		Size:    50,
		Points:  make([]ScatterPoint, 0, len(t)),
	}
	for _, r := range t {
		c.Points = append(c.Points, ScatterPoint{X: float64(r.DurationDays), Y: r.DistanceKm, Count: r.Count})
	}
	return c
}

// BurnDistanceScatter plots percentage burnt against distance from the station
func BurnDistanceScatter(t pipeline.BurnDistanceTable) *ScatterChart {
	c := &ScatterChart{
		Title:   "Breakdown by % Burned and Distance",
		XAxis:   "Burn Percentage",
		YAxis:   "Distance from Station (Km)",
		Color:   "red",
		Opacity: 0.3,
		Size:    50,
		Points:  make([]ScatterPoint, 0, len(t)),
	}
	for _, r := range t {
		c.Points = append(c.Points, ScatterPoint{X: r.PercentageBurnt, Y: r.DistanceKm, Count: r.Count})
	}
	return c
}

// TrendLines builds the annual trend for the selected measures
func TrendLines(t pipeline.MeasuresTable, selected []pipeline.Measure) *LineChart {
	c := &LineChart{
		Title:      "Annual Trend",
		Available:  make([]string, 0, len(pipeline.Measures())),
		Selected:   make([]string, 0, len(selected)),
		Categories: make([]string, 0, len(t)),
		Series:     make([]LineSeries, 0, len(selected)),
	}
	for _, m := range pipeline.Measures() {
		c.Available = append(c.Available, m.String())
	}
	for _, row := range t {
		c.Categories = append(c.Categories, FormatYear(row.IgnitionYear))
	}
	if len(selected) == 0 {
		c.Message = NoMeasuresMessage
		return c
	}
	for _, m := range selected {
		c.Selected = append(c.Selected, m.String())
		s := LineSeries{Name: m.String(), Values: make([]*float64, 0, len(t))}
		for _, row := range t {
			if v, ok := m.Value(row); ok {
				s.Values = append(s.Values, &v)
			} else {
				s.Values = append(s.Values, nil)
			}
		}
		c.Series = append(c.Series, s)
	}
	return c
}
