package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/pkg/utils"
)

// MockStation is a demo fire station
type MockStation struct {
	domain.Station
}

// MockFire is a demo fire located by its centroid
type MockFire struct {
	Label                  string
	Type                   string
	BurnStatus             string
	Location               string
	Agency                 string
	Ignition               time.Time
	Out                    *time.Time
	PercentageBurnt        float64
	AreaHectare            float64
	IntersectingProperties int
	Latitude               float64
	Longitude              float64
	Geometry               *string
}

// MockRepository implements domain.FireRepository in memory for demo mode.
// Distances are great-circle haversine distances, standing in for ST_Distance.
type MockRepository struct {
	stations []MockStation
	fires    []MockFire
}

// NewMockRepository creates a mock repository seeded with demo data
func NewMockRepository() *MockRepository {
	return NewMockRepositoryWith(demoStations(), demoFires())
}

// NewMockRepositoryWith creates a mock repository over the given data
func NewMockRepositoryWith(stations []MockStation, fires []MockFire) *MockRepository {
	return &MockRepository{stations: stations, fires: fires}
}

// FilterOptions mirrors the distinct-value lookup over the demo data
func (r *MockRepository) FilterOptions(ctx context.Context) ([]domain.FilterOption, error) {
	seen := make(map[domain.FilterOption]struct{})
	add := func(cat, val string) {
		if val != "" {
			seen[domain.FilterOption{Category: cat, Value: val}] = struct{}{}
		}
	}
	for _, f := range r.fires {
		add(domain.CategoryFireType, f.Type)
		add(domain.CategoryBurnStatus, f.BurnStatus)
		add(domain.CategoryOwningAgency, f.Agency)
		add(domain.CategoryYear, strconv.Itoa(f.Ignition.Year()))
	}
	for _, s := range r.stations {
		add(domain.CategoryStation, s.Name)
	}

	out := make([]domain.FilterOption, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// NearbyFires evaluates the proximity join in memory
func (r *MockRepository) NearbyFires(ctx context.Context, station string, radiusKm int, years domain.YearRange) ([]domain.FireRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.QueryError{Op: "nearby fires", Err: err}
	}
	radiusMeters := float64(radiusKm * 1000)

	var results []domain.FireRecord
	for _, s := range r.stations {
		if s.Name != station {
			continue
		}
		for _, f := range r.fires {
			year := f.Ignition.Year()
			if !years.Contains(year) {
				continue
			}
			meters := utils.Haversine(s.Latitude, s.Longitude, f.Latitude, f.Longitude) * 1000
			if meters > radiusMeters {
				continue
			}
			results = append(results, f.record(s.Station, year, utils.RoundTo(meters/1000, 2)))
		}
	}
	return results, nil
}

func (f MockFire) record(s domain.Station, year int, distanceKm float64) domain.FireRecord {
	rec := domain.FireRecord{
		Station:                s,
		FireLabel:              f.Label,
		FireType:               f.Type,
		BurnStatus:             f.BurnStatus,
		GeneralLocation:        f.Location,
		OwningAgency:           f.Agency,
		IgnitionDate:           f.Ignition,
		IgnitionYear:           year,
		OutDate:                f.Out,
		PercentageBurnt:        f.PercentageBurnt,
		AreaHectare:            utils.RoundTo(f.AreaHectare, 2),
		IntersectingProperties: f.IntersectingProperties,
		Geometry:               f.Geometry,
		DistanceKm:             distanceKm,
	}
	if f.Out != nil {
		d := int(f.Out.Sub(f.Ignition).Hours() / 24)
		rec.DurationDays = &d
	}
	return rec
}

// RunReadOnly is unavailable without a database
func (r *MockRepository) RunReadOnly(ctx context.Context, sql string) (domain.ResultTable, error) {
	return domain.ResultTable{}, &domain.QueryError{Op: "read-only query", Err: errors.New("ad hoc queries need a database connection")}
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

// SquareGeometry builds a closed GeoJSON polygon of the given half-width (degrees) around a centroid
func SquareGeometry(lat, lon, half float64) *string {
	g := fmt.Sprintf(`{"type":"Polygon","coordinates":[[[%[1]f,%[2]f],[%[3]f,%[2]f],[%[3]f,%[4]f],[%[1]f,%[4]f],[%[1]f,%[2]f]]]}`,
		lon-half, lat-half, lon+half, lat+half)
	return &g
}

// PointGeometry builds a GeoJSON point
func PointGeometry(lat, lon float64) string {
	return fmt.Sprintf(`{"type":"Point","coordinates":[%f,%f]}`, lon, lat)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func demoStations() []MockStation {
	mk := func(name string, lat, lon float64, brigade, rural string) MockStation {
		return MockStation{domain.Station{
			Name: name, Latitude: lat, Longitude: lon,
			Geometry: PointGeometry(lat, lon), BrigadeName: brigade, RuralArea: rural,
		}}
	}
	return []MockStation{
		mk("BEERWAH", -26.8581, 152.9606, "BEERWAH RURAL", "SUNSHINE COAST"),
		mk("TOOWOOMBA", -27.5606, 151.9539, "", ""),
		mk("STANTHORPE", -28.6545, 151.9336, "STANTHORPE RURAL", "DARLING DOWNS"),
	}
}

func demoFires() []MockFire {
	type seed struct {
		label, typ, status, loc string
		ign                     time.Time
		out                     *time.Time
		pct, area               float64
		props                   int
		lat, lon                float64
	}
	seeds := []seed{
		{"BW-2016-001", "Wildfire", "Out", "Glass House Mountains", day(2016, time.September, 2), dayPtr(2016, time.September, 6), 64, 120.5, 3, -26.90, 152.95},
		{"BW-2017-014", "Planned Burn", "Out", "Beerburrum State Forest", day(2017, time.June, 11), dayPtr(2017, time.June, 12), 88, 310.25, 0, -26.96, 152.99},
		{"BW-2019-102", "Wildfire", "Out", "Peregian Beach", day(2019, time.September, 6), dayPtr(2019, time.October, 20), 97, 1520.8, 41, -26.48, 153.09},
		{"BW-2019-117", "Wildfire", "Contained", "Coochin Creek", day(2019, time.November, 9), nil, 42, 75.0, 1, -26.87, 153.05},
		{"BW-2020-003", "Unknown", "Out", "Landsborough", day(2020, time.January, 4), dayPtr(2020, time.February, 20), 15, 12.3, 0, -26.81, 152.96},
		{"BW-2021-040", "Planned Burn", "Out", "Mount Mellum", day(2021, time.May, 17), dayPtr(2021, time.May, 27), 70, 44.6, 0, -26.82, 152.93},
		{"TW-2018-009", "Wildfire", "Out", "Highfields", day(2018, time.August, 28), dayPtr(2018, time.September, 30), 55, 230.0, 7, -27.46, 151.95},
		{"TW-2019-033", "Wildfire", "Out", "Cabarlah", day(2019, time.October, 3), dayPtr(2020, time.March, 1), 91, 860.2, 12, -27.43, 151.99},
		{"TW-2022-005", "Planned Burn", "Contained", "Gowrie Junction", day(2022, time.July, 19), dayPtr(2022, time.July, 19), 33, 18.9, 0, -27.50, 151.88},
		{"ST-2019-201", "Wildfire", "Out", "Broadwater", day(2019, time.September, 5), dayPtr(2020, time.January, 15), 99, 2100.0, 18, -28.55, 151.88},
		{"ST-2020-011", "Planned Burn", "Out", "Amiens", day(2020, time.April, 22), dayPtr(2020, time.April, 20), 20, 5.4, 0, -28.60, 151.82},
		{"ST-2023-044", "Wildfire", "Contained", "Eukey", day(2023, time.October, 30), nil, 61, 410.7, 4, -28.74, 152.00},
	}
	fires := make([]MockFire, 0, len(seeds))
	for _, s := range seeds {
		fires = append(fires, MockFire{
			Label: s.label, Type: s.typ, BurnStatus: s.status, Location: s.loc,
			Agency: "QFES", Ignition: s.ign, Out: s.out,
			PercentageBurnt: s.pct, AreaHectare: s.area, IntersectingProperties: s.props,
			Latitude: s.lat, Longitude: s.lon, Geometry: SquareGeometry(s.lat, s.lon, 0.01),
		})
	}
	return fires
}
