package pipeline

import (
	"math"
	"testing"

	"github.com/firehistory/backend/internal/domain"
)

func rec(year int, typ string, km, pct, area float64, props int, duration *int) domain.FireRecord {
	return domain.FireRecord{
		IgnitionYear:           year,
		FireType:               typ,
		DistanceKm:             km,
		PercentageBurnt:        pct,
		AreaHectare:            area,
		IntersectingProperties: props,
		DurationDays:           duration,
	}
}

func aggSample() FilteredFires {
	return ApplyFilters([]domain.FireRecord{
		rec(2018, "Wildfire", 4.2, 50, 10, 1, days(3)),
		rec(2018, "Wildfire", 5.1, 50, 20, 0, days(10)),
		rec(2018, "Planned Burn", 14.9, 80, 5.5, 2, nil),
		rec(2019, "Wildfire", 4.2, 50, 100, 4, days(3)),
		rec(2019, "Wildfire", 25.0, 10, 1, 0, days(-1)),
	}, nil, domain.FireAgeAll, DefaultFireAgePolicy())
}

func tableCount(t *testing.T, tbl Table) int {
	t.Helper()
	n := 0
	switch v := tbl.(type) {
	case YearDistanceTable:
		for _, r := range v {
			n += r.Count
		}
	case YearTypeTable:
		for _, r := range v {
			n += r.Count
		}
	case DurationDistanceTable:
		for _, r := range v {
			n += r.Count
		}
	case BurnDistanceTable:
		for _, r := range v {
			n += r.Count
		}
	case MeasuresTable:
		for _, r := range v {
			n += r.Count
		}
	default:
		t.Fatalf("unexpected table %T", tbl)
	}
	return n
}

func TestAggregate_CountsConserved(t *testing.T) {
	f := aggSample()
	for _, mode := range []AggregationMode{ModeYear, ModeYearType, ModeDistanceBurn, ModeMeasures} {
		tbl, err := Aggregate(f, mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if tbl.Mode() != mode {
			t.Fatalf("table mode %s want %s", tbl.Mode(), mode)
		}
		if got := tableCount(t, tbl); got != f.Len() {
			t.Errorf("%s: counts sum to %d want %d", mode, got, f.Len())
		}
	}
}

func TestAggregate_EmptyInputHasNoGroups(t *testing.T) {
	empty := ApplyFilters(nil, nil, domain.FireAgeAll, DefaultFireAgePolicy())
	for _, mode := range AggregationModes() {
		tbl, err := Aggregate(empty, mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if tbl.Len() != 0 {
			t.Errorf("%s: %d groups from empty input", mode, tbl.Len())
		}
	}
}

func TestAggregate_UnknownMode(t *testing.T) {
	if _, err := Aggregate(aggSample(), AggregationMode(42)); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestByYearDistance_BandsAndMerge(t *testing.T) {
	got := ByYearDistance(aggSample())
	want := YearDistanceTable{
		{IgnitionYear: 2018, DistanceBand: 0, Count: 1},
		{IgnitionYear: 2018, DistanceBand: 1, Count: 2},
		{IgnitionYear: 2019, DistanceBand: 0, Count: 1},
		{IgnitionYear: 2019, DistanceBand: 3, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestDistanceBand_RoundsHalfAway(t *testing.T) {
	cases := map[float64]int{0: 0, 4.99: 0, 5: 1, 14.99: 1, 15: 2, 100: 10}
	for km, want := range cases {
		if got := DistanceBand(km); got != want {
			t.Errorf("DistanceBand(%v)=%d want %d", km, got, want)
		}
	}
}

func TestByYearType(t *testing.T) {
	got := ByYearType(aggSample())
	want := YearTypeTable{
		{IgnitionYear: 2018, FireType: "Planned Burn", Count: 1},
		{IgnitionYear: 2018, FireType: "Wildfire", Count: 2},
		{IgnitionYear: 2019, FireType: "Wildfire", Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestByDurationDistance_SkipsUnknownAndNegative(t *testing.T) {
	got := ByDurationDistance(aggSample())
	want := DurationDistanceTable{
		{DurationDays: 3, DistanceKm: 4.2, Count: 2},
		{DurationDays: 10, DistanceKm: 5.1, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestByBurnDistance_MergesEqualKeys(t *testing.T) {
	got := ByBurnDistance(aggSample())
	for _, r := range got {
		if r.PercentageBurnt == 50 && r.DistanceKm == 4.2 && r.Count != 2 {
			t.Fatalf("equal keys must merge, got %+v", r)
		}
	}
	if len(got) != 4 {
		t.Fatalf("got %d groups want 4: %+v", len(got), got)
	}
}

func TestMeasuresByYear(t *testing.T) {
	got := MeasuresByYear(aggSample())
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	y18 := got[0]
	if y18.IgnitionYear != 2018 || y18.Count != 3 {
		t.Fatalf("2018 row %+v", y18)
	}
	if math.Abs(y18.AvgPercentBurnt-60) > 1e-9 {
		t.Errorf("avg pct=%v", y18.AvgPercentBurnt)
	}
	if y18.AvgDuration == nil || *y18.AvgDuration != 6.5 {
		t.Errorf("avg duration must ignore unknown lifetimes: %v", y18.AvgDuration)
	}
	if y18.MaxDuration == nil || *y18.MaxDuration != 10 {
		t.Errorf("max duration=%v", y18.MaxDuration)
	}
	if y18.IntersectingProperties != 3 || y18.MaxPercentBurnt != 80 || y18.LargestArea != 20 {
		t.Errorf("2018 row %+v", y18)
	}

	fireAge, ok1 := MeasureMaxFireAge.Value(y18)
	duration, ok2 := MeasureMaxDuration.Value(y18)
	if !ok1 || !ok2 || fireAge != duration {
		t.Errorf("max duration is reported under both labels")
	}
}

func TestMeasuresByYear_AllDurationsUnknown(t *testing.T) {
	f := ApplyFilters([]domain.FireRecord{rec(2020, "Wildfire", 1, 1, 1, 0, nil)}, nil, domain.FireAgeAll, DefaultFireAgePolicy())
	got := MeasuresByYear(f)
	if got[0].AvgDuration != nil || got[0].MaxDuration != nil {
		t.Fatalf("duration stats must stay unknown: %+v", got[0])
	}
	if _, ok := MeasureAvgDuration.Value(got[0]); ok {
		t.Fatalf("unknown measure must report ok=false")
	}
}

func TestParseMeasureAndMode(t *testing.T) {
	for _, m := range Measures() {
		got, err := ParseMeasure(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMeasure(%q)=%v,%v", m, got, err)
		}
	}
	for _, m := range AggregationModes() {
		got, err := ParseAggregationMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseAggregationMode(%q)=%v,%v", m, got, err)
		}
	}
	if _, err := ParseMeasure("Median"); err == nil {
		t.Errorf("expected error for unknown measure")
	}
}
