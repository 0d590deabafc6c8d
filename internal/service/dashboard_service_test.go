package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/metrics"
	"github.com/firehistory/backend/internal/pipeline"
	"github.com/firehistory/backend/internal/presentation"
	"github.com/firehistory/backend/internal/repository/postgres"
	"github.com/firehistory/backend/pkg/utils"
)

const alphaLat, alphaLon = -27.0, 153.0

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func alphaRepo() *postgres.MockRepository {
	station := postgres.MockStation{Station: domain.Station{
		Name: "ALPHA", Latitude: alphaLat, Longitude: alphaLon, Geometry: postgres.PointGeometry(alphaLat, alphaLon),
	}}
	near := utils.OffsetNorth(alphaLat, 15)
	far := utils.OffsetNorth(alphaLat, 25)
	out := day(2018, time.March, 9)
	fires := []postgres.MockFire{
		{Label: "NEAR", Type: "Wildfire", BurnStatus: "Contained", Ignition: day(2018, time.March, 1), Out: &out,
			PercentageBurnt: 40, Latitude: near, Longitude: alphaLon, Geometry: postgres.SquareGeometry(near, alphaLon, 0.01)},
		{Label: "FAR", Type: "Wildfire", BurnStatus: "Out", Ignition: day(2019, time.March, 1), Latitude: far, Longitude: alphaLon},
		{Label: "OLD", Type: "Wildfire", BurnStatus: "Out", Ignition: day(2012, time.March, 1), Latitude: near, Longitude: alphaLon},
	}
	return postgres.NewMockRepositoryWith([]postgres.MockStation{station}, fires)
}

func alphaState() domain.FilterState {
	return domain.FilterState{
		Station:  "ALPHA",
		RadiusKm: 20,
		Years:    domain.YearRange{Min: 2015, Max: 2019},
		FireAge:  domain.FireAgeAll,
	}
}

func newService(t *testing.T, repo domain.FireRepository, opts ...Option) *DashboardService {
	t.Helper()
	s, err := NewDashboardService(context.Background(), repo, opts...)
	if err != nil {
		t.Fatalf("NewDashboardService: %v", err)
	}
	return s
}

func TestNewDashboardService_LoadsCatalog(t *testing.T) {
	s := newService(t, alphaRepo())
	opts := s.Options()
	if !opts.HasStation("ALPHA") || opts.MinYear != 2012 || opts.MaxYear != 2019 {
		t.Fatalf("catalog=%+v", opts)
	}
	d := s.Defaults()
	if d.HasStation() || d.RadiusKm != domain.DefaultRadiusKm || d.Years != (domain.YearRange{Min: 2012, Max: 2019}) {
		t.Fatalf("defaults=%+v", d)
	}
}

type failingRepo struct {
	*postgres.MockRepository
	err error
}

func (r failingRepo) FilterOptions(context.Context) ([]domain.FilterOption, error) {
	return nil, r.err
}

func TestNewDashboardService_CatalogFailure(t *testing.T) {
	cause := &domain.ConnectionError{Op: "filter options", Err: errors.New("refused")}
	_, err := NewDashboardService(context.Background(), failingRepo{postgres.NewMockRepository(), cause})
	var ce *domain.ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConnectionError, got %v", err)
	}
}

func TestRawData_AlphaScenario(t *testing.T) {
	s := newService(t, alphaRepo())
	tbl, err := s.RawData(context.Background(), alphaState())
	if err != nil {
		t.Fatalf("RawData: %v", err)
	}
	if tbl.NoRecords || len(tbl.Rows) != 1 {
		t.Fatalf("rows=%+v", tbl.Rows)
	}
	row := tbl.Rows[0]
	if row.FireLabel != "NEAR" || row.FireDurationDays != "8" || row.OutDate != "2018-03-09" {
		t.Fatalf("row=%+v", row)
	}
}

func TestRawData_FiltersNarrowToEmpty(t *testing.T) {
	s := newService(t, alphaRepo())
	f := alphaState()
	f.BurnStatuses = []string{"Out"}
	tbl, err := s.RawData(context.Background(), f)
	if err != nil {
		t.Fatalf("RawData: %v", err)
	}
	if !tbl.NoRecords || tbl.Message != presentation.NoRecordsMessage {
		t.Fatalf("want no records, got %+v", tbl)
	}
}

func TestPipeline_UnselectedStationShortCircuits(t *testing.T) {
	s := newService(t, alphaRepo())
	f := alphaState()
	f.Station = domain.NoStation
	if _, err := s.Map(context.Background(), f); !errors.Is(err, ErrNoStation) {
		t.Fatalf("Map err=%v", err)
	}
	if _, err := s.Analytics(context.Background(), f, nil); !errors.Is(err, ErrNoStation) {
		t.Fatalf("Analytics err=%v", err)
	}
}

func TestPipeline_InvalidFilterIsParseError(t *testing.T) {
	s := newService(t, alphaRepo())
	f := alphaState()
	f.RadiusKm = 5
	_, err := s.RawData(context.Background(), f)
	var pe *domain.ParseError
	if !errors.As(err, &pe) || pe.Field != "radius" {
		t.Fatalf("want radius ParseError, got %v", err)
	}
}

func TestMap_AlphaScenario(t *testing.T) {
	var buf bytes.Buffer
	reg := metrics.Init(metrics.BuildInfo{})
	s := newService(t, alphaRepo(), WithLogger(zerolog.New(&buf)), WithMetrics(metrics.NewDashboard(reg)))

	view, err := s.Map(context.Background(), alphaState())
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if view.NoRecords || view.ViewState.Zoom != 10 {
		t.Fatalf("view=%+v", view)
	}
	polys := view.Layers[0].Data.([]presentation.FirePolygon)
	if len(polys) != 1 || polys[0].DistanceKm != 15 {
		t.Fatalf("polygons=%+v", polys)
	}
}

func TestMap_LogsSkippedGeometry(t *testing.T) {
	var buf bytes.Buffer
	s := newService(t, alphaRepo(), WithLogger(zerolog.New(&buf)))
	f := alphaState()
	f.Years = domain.YearRange{Min: 2012, Max: 2019}
	f.RadiusKm = 30

	view, err := s.Map(context.Background(), f)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(view.SkippedGeometries) != 2 {
		t.Fatalf("skipped=%v", view.SkippedGeometries)
	}
	if !strings.Contains(buf.String(), "left off the map") || !strings.Contains(buf.String(), `"station":"ALPHA"`) {
		t.Fatalf("log=%s", buf.String())
	}
}

func TestAnalytics_AlphaScenario(t *testing.T) {
	s := newService(t, alphaRepo())
	a, err := s.Analytics(context.Background(), alphaState(), nil)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if a.NoRecords || a.ByType == nil || a.Heatmap == nil || a.DurationDistance == nil || a.BurnDistance == nil || a.Trend == nil {
		t.Fatalf("analytics=%+v", a)
	}
	if a.Heatmap.Bands[0] != 2 || a.Heatmap.Years[0] != "2018" {
		t.Fatalf("heatmap=%+v", a.Heatmap)
	}
	if len(a.Trend.Selected) != 2 {
		t.Fatalf("default measures not applied: %+v", a.Trend.Selected)
	}

	none, err := s.Analytics(context.Background(), alphaState(), []pipeline.Measure{})
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if none.Trend.Message != presentation.NoMeasuresMessage {
		t.Fatalf("empty selection=%+v", none.Trend)
	}
}

func TestAnalytics_EmptyAfterFilters(t *testing.T) {
	s := newService(t, alphaRepo())
	f := alphaState()
	f.FireAge = domain.FireAge181To360
	a, err := s.Analytics(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if !a.NoRecords || a.ByType != nil {
		t.Fatalf("want empty analytics, got %+v", a)
	}
}

func TestPipeline_FireAgePolicyConfigurable(t *testing.T) {
	f := alphaState()
	f.FireAge = domain.FireAgeOver360

	strict := newService(t, alphaRepo(), WithFireAgePolicy(pipeline.FireAgePolicy{OpenBucketMinDays: 360}))
	tbl, _ := strict.RawData(context.Background(), f)
	if !tbl.NoRecords {
		t.Fatalf("8-day fire must not pass a 360-day threshold")
	}
	loose := newService(t, alphaRepo(), WithFireAgePolicy(pipeline.FireAgePolicy{OpenBucketMinDays: 7}))
	tbl, _ = loose.RawData(context.Background(), f)
	if tbl.NoRecords {
		t.Fatalf("8-day fire must pass a 7-day threshold")
	}
}
