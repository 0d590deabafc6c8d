package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AggregationMode selects one of the fixed chart reshapes
type AggregationMode int

const (
	ModeYear AggregationMode = iota
	ModeYearType
	ModeDistanceAge
	ModeDistanceBurn
	ModeMeasures
)

var modeNames = [...]string{
	ModeYear:         "Year",
	ModeYearType:     "Year-Type",
	ModeDistanceAge:  "Distance-Age",
	ModeDistanceBurn: "Distance-Burn",
	ModeMeasures:     "Measures",
}

// AggregationModes lists every mode
func AggregationModes() []AggregationMode {
	return []AggregationMode{ModeYear, ModeYearType, ModeDistanceAge, ModeDistanceBurn, ModeMeasures}
}

func (m AggregationMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("AggregationMode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseAggregationMode resolves a mode name
func ParseAggregationMode(s string) (AggregationMode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return AggregationMode(i), nil
		}
	}
	return 0, fmt.Errorf("aggregate: unknown mode %q", s)
}

// Table is an aggregated, chart-ready result
type Table interface {
	Mode() AggregationMode
	Len() int
}

// Aggregate dispatches to the reshape for mode
func Aggregate(f FilteredFires, mode AggregationMode) (Table, error) {
	switch mode {
	case ModeYear:
		return ByYearDistance(f), nil
	case ModeYearType:
		return ByYearType(f), nil
	case ModeDistanceAge:
		return ByDurationDistance(f), nil
	case ModeDistanceBurn:
		return ByBurnDistance(f), nil
	case ModeMeasures:
		return MeasuresByYear(f), nil
	default:
		return nil, fmt.Errorf("aggregate: unhandled mode %v", mode)
	}
}

// YearDistanceCount counts fires per ignition year and 10 km distance band
type YearDistanceCount struct {
	IgnitionYear int `json:"ignition_year"`
	DistanceBand int `json:"distance_from_station"`
	Count        int `json:"count_of_fires"`
}

type YearDistanceTable []YearDistanceCount

func (YearDistanceTable) Mode() AggregationMode { return ModeYear }
func (t YearDistanceTable) Len() int            { return len(t) }

// DistanceBand is round(distance_km / 10)
func DistanceBand(distanceKm float64) int {
	return int(math.Round(distanceKm / 10))
}

func ByYearDistance(f FilteredFires) YearDistanceTable {
	type key struct{ year, band int }
	counts := make(map[key]int)
	for _, r := range f.rows {
		counts[key{r.IgnitionYear, DistanceBand(r.DistanceKm)}]++
	}
	out := make(YearDistanceTable, 0, len(counts))
	for k, n := range counts {
		out = append(out, YearDistanceCount{IgnitionYear: k.year, DistanceBand: k.band, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IgnitionYear != out[j].IgnitionYear {
			return out[i].IgnitionYear < out[j].IgnitionYear
		}
		return out[i].DistanceBand < out[j].DistanceBand
	})
	return out
}

// YearTypeCount counts fires per ignition year and fire type
type YearTypeCount struct {
	IgnitionYear int    `json:"ignition_year"`
	FireType     string `json:"fire_type"`
	Count        int    `json:"count_of_fires"`
}

type YearTypeTable []YearTypeCount

func (YearTypeTable) Mode() AggregationMode { return ModeYearType }
func (t YearTypeTable) Len() int            { return len(t) }

func ByYearType(f FilteredFires) YearTypeTable {
	type key struct {
		year int
		typ  string
	}
	counts := make(map[key]int)
	for _, r := range f.rows {
		counts[key{r.IgnitionYear, r.FireType}]++
	}
	out := make(YearTypeTable, 0, len(counts))
	for k, n := range counts {
		out = append(out, YearTypeCount{IgnitionYear: k.year, FireType: k.typ, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IgnitionYear != out[j].IgnitionYear {
			return out[i].IgnitionYear < out[j].IgnitionYear
		}
		return out[i].FireType < out[j].FireType
	})
	return out
}

// DurationDistanceCount counts fires per lifetime and exact distance
type DurationDistanceCount struct {
	DurationDays int     `json:"fire_duration_days"`
	DistanceKm   float64 `json:"distance_from_station_km"`
	Count        int     `json:"count_of_fires"`
}

type DurationDistanceTable []DurationDistanceCount

func (DurationDistanceTable) Mode() AggregationMode { return ModeDistanceAge }
func (t DurationDistanceTable) Len() int            { return len(t) }

// ByDurationDistance skips fires with unknown or negative lifetimes; negative
// values are data-entry artifacts.
func ByDurationDistance(f FilteredFires) DurationDistanceTable {
	type key struct {
		days int
		km   float64
	}
	counts := make(map[key]int)
	for _, r := range f.rows {
		if r.DurationDays == nil || *r.DurationDays < 0 {
			continue
		}
		counts[key{*r.DurationDays, r.DistanceKm}]++
	}
	out := make(DurationDistanceTable, 0, len(counts))
	for k, n := range counts {
		out = append(out, DurationDistanceCount{DurationDays: k.days, DistanceKm: k.km, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DurationDays != out[j].DurationDays {
			return out[i].DurationDays < out[j].DurationDays
		}
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// BurnDistanceCount counts fires per burn percentage and exact distance
type BurnDistanceCount struct {
	PercentageBurnt float64 `json:"percentage_burnt"`
	DistanceKm      float64 `json:"distance_from_station_km"`
	Count           int     `json:"count_of_fires"`
}

type BurnDistanceTable []BurnDistanceCount

func (BurnDistanceTable) Mode() AggregationMode { return ModeDistanceBurn }
func (t BurnDistanceTable) Len() int            { return len(t) }

func ByBurnDistance(f FilteredFires) BurnDistanceTable {
	type key struct{ pct, km float64 }
	counts := make(map[key]int)
	for _, r := range f.rows {
		counts[key{r.PercentageBurnt, r.DistanceKm}]++
	}
	out := make(BurnDistanceTable, 0, len(counts))
	for k, n := range counts {
		out = append(out, BurnDistanceCount{PercentageBurnt: k.pct, DistanceKm: k.km, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PercentageBurnt != out[j].PercentageBurnt {
			return out[i].PercentageBurnt < out[j].PercentageBurnt
		}
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// YearMeasures holds the annual trend statistics. Duration statistics ignore
// fires without an out date and are nil when none in the year has one.
type YearMeasures struct {
	IgnitionYear           int      `json:"ignition_year"`
	Count                  int      `json:"count_of_fires"`
	AvgPercentBurnt        float64  `json:"average_percent_burned"`
	AvgDuration            *float64 `json:"average_fire_duration"`
	IntersectingProperties int      `json:"count_of_intersecting_properties"`
	MaxPercentBurnt        float64  `json:"highest_percent_burned"`
	MaxDuration            *int     `json:"highest_fire_duration"`
	LargestArea            float64  `json:"largest_fire_area"`
}

type MeasuresTable []YearMeasures

func (MeasuresTable) Mode() AggregationMode { return ModeMeasures }
func (t MeasuresTable) Len() int            { return len(t) }

func MeasuresByYear(f FilteredFires) MeasuresTable {
	type acc struct {
		m           YearMeasures
		pctSum      float64
		durSum      int
		durCount    int
		initialized bool
	}
	years := make(map[int]*acc)
	for _, r := range f.rows {
		a, ok := years[r.IgnitionYear]
		if !ok {
			a = &acc{m: YearMeasures{IgnitionYear: r.IgnitionYear}}
			years[r.IgnitionYear] = a
		}
		a.m.Count++
		a.pctSum += r.PercentageBurnt
		a.m.IntersectingProperties += r.IntersectingProperties
		if !a.initialized || r.PercentageBurnt > a.m.MaxPercentBurnt {
			a.m.MaxPercentBurnt = r.PercentageBurnt
		}
		if !a.initialized || r.AreaHectare > a.m.LargestArea {
			a.m.LargestArea = r.AreaHectare
		}
		a.initialized = true
		if r.DurationDays != nil {
			d := *r.DurationDays
			a.durSum += d
			a.durCount++
			if a.m.MaxDuration == nil || d > *a.m.MaxDuration {
				a.m.MaxDuration = &d
			}
		}
	}

	out := make(MeasuresTable, 0, len(years))
	for _, a := range years {
		a.m.AvgPercentBurnt = a.pctSum / float64(a.m.Count)
		if a.durCount > 0 {
			avg := float64(a.durSum) / float64(a.durCount)
			a.m.AvgDuration = &avg
		}
		out = append(out, a.m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IgnitionYear < out[j].IgnitionYear })
	return out
}

// Measure is one selectable series of the annual trend chart
type Measure int

const (
	MeasureCount Measure = iota
	MeasureAvgPercentBurnt
	MeasureAvgDuration
	MeasureIntersectingProperties
	MeasureMaxPercentBurnt
	MeasureMaxFireAge
	MeasureMaxDuration
	MeasureLargestArea
)

var measureLabels = [...]string{
	MeasureCount:                  "Count of Fires",
	MeasureAvgPercentBurnt:        "Average % Burned",
	MeasureAvgDuration:            "Average Fire Duration",
	MeasureIntersectingProperties: "Count of Intersecting Properties",
	MeasureMaxPercentBurnt:        "Highest % Burned",
	MeasureMaxFireAge:             "Highest Fire Age (Days)",
	MeasureMaxDuration:            "Highest Fire Duration",
	MeasureLargestArea:            "Largest Fire Area",
}

// Measures lists every measure in column order
func Measures() []Measure {
	out := make([]Measure, 0, len(measureLabels))
	for i := range measureLabels {
		out = append(out, Measure(i))
	}
	return out
}

// DefaultMeasures is the initial trend chart selection
func DefaultMeasures() []Measure {
	return []Measure{MeasureAvgPercentBurnt, MeasureAvgDuration}
}

func (m Measure) String() string {
	if m < 0 || int(m) >= len(measureLabels) {
		return fmt.Sprintf("Measure(%d)", int(m))
	}
	return measureLabels[m]
}

// ParseMeasure resolves a column label
func ParseMeasure(label string) (Measure, error) {
	for i, l := range measureLabels {
		if l == strings.TrimSpace(label) {
			return Measure(i), nil
		}
	}
	return 0, fmt.Errorf("aggregate: unknown measure %q", label)
}

// Value reads the measure from a year row; ok is false when it is unknown
func (m Measure) Value(row YearMeasures) (float64, bool) {
	switch m {
	case MeasureCount:
		return float64(row.Count), true
	case MeasureAvgPercentBurnt:
		return row.AvgPercentBurnt, true
	case MeasureAvgDuration:
		if row.AvgDuration == nil {
			return 0, false
		}
		return *row.AvgDuration, true
	case MeasureIntersectingProperties:
		return float64(row.IntersectingProperties), true
	case MeasureMaxPercentBurnt:
		return row.MaxPercentBurnt, true
	case MeasureMaxFireAge, MeasureMaxDuration:
		if row.MaxDuration == nil {
			return 0, false
		}
		return float64(*row.MaxDuration), true
	case MeasureLargestArea:
		return row.LargestArea, true
	default:
		return 0, false
	}
}
