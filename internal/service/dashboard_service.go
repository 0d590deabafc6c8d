package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/logger"
	"github.com/firehistory/backend/internal/metrics"
	"github.com/firehistory/backend/internal/pipeline"
	"github.com/firehistory/backend/internal/presentation"
)

// ErrNoStation is returned when a tab is requested without a selected station
var ErrNoStation = errors.New("service: no station selected")

// DashboardService runs the query, filter, aggregate and present pipeline
// for every dashboard tab.
type DashboardService struct {
	repo    domain.FireRepository
	options domain.FilterOptions
	policy  pipeline.FireAgePolicy
	color   presentation.ColorFunc
	metrics *metrics.Dashboard
	log     zerolog.Logger
}

// Option configures a DashboardService
type Option func(*DashboardService)

func WithFireAgePolicy(p pipeline.FireAgePolicy) Option {
	return func(s *DashboardService) { s.policy = p }
}

func WithColor(c presentation.ColorFunc) Option {
	return func(s *DashboardService) { s.color = c }
}

func WithMetrics(m *metrics.Dashboard) Option {
	return func(s *DashboardService) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *DashboardService) { s.log = l }
}

// NewDashboardService loads the filter catalog once; it is shared read-only
// by every request afterwards.
func NewDashboardService(ctx context.Context, repo domain.FireRepository, opts ...Option) (*DashboardService, error) {
	s := &DashboardService{
		repo:   repo,
		policy: pipeline.DefaultFireAgePolicy(),
		color:  presentation.DefaultColor(),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	start := time.Now()
	rows, err := repo.FilterOptions(ctx)
	s.metrics.ObserveQuery("filter_options", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("service: failed to load filter options: %w", err)
	}
	catalog, err := domain.NewFilterOptions(rows)
	if err != nil {
		return nil, fmt.Errorf("service: failed to build filter options: %w", err)
	}
	s.options = catalog
	s.log.Info().
		Int("stations", len(catalog.Stations)).
		Int("min_year", catalog.MinYear).
		Int("max_year", catalog.MaxYear).
		Msg("filter options loaded")
	return s, nil
}

// Options returns the filter catalog
func (s *DashboardService) Options() domain.FilterOptions {
	return s.options
}

// Defaults is the initial sidebar state: no station, minimum radius, all years
func (s *DashboardService) Defaults() domain.FilterState {
	return domain.FilterState{
		Station:  domain.NoStation,
		RadiusKm: domain.DefaultRadiusKm,
		Years:    s.options.Years(),
		FireAge:  domain.FireAgeAll,
	}
}

// fires validates f, runs the proximity join and applies the post-filters
func (s *DashboardService) fires(ctx context.Context, f domain.FilterState) (pipeline.FilteredFires, error) {
	if !f.HasStation() {
		return pipeline.FilteredFires{}, ErrNoStation
	}
	if err := f.Validate(s.options); err != nil {
		return pipeline.FilteredFires{}, err
	}
	ctx = logger.WithStation(ctx, f.Station)
	log := logger.FromContext(ctx, &s.log)

	start := time.Now()
	rows, err := s.repo.NearbyFires(ctx, f.Station, f.RadiusKm, f.Years)
	s.metrics.ObserveQuery("nearby_fires", err, time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Msg("proximity query failed")
		return pipeline.FilteredFires{}, err
	}

	filtered := pipeline.ApplyFilters(rows, f.BurnStatuses, f.FireAge, s.policy)
	s.metrics.ObserveRows(len(rows), filtered.Len())
	log.Debug().
		Int("radius_km", f.RadiusKm).
		Int("rows", len(rows)).
		Int("filtered", filtered.Len()).
		Dur("took", time.Since(start)).
		Msg("fires loaded")
	return filtered, nil
}

// Map builds the Map tab
func (s *DashboardService) Map(ctx context.Context, f domain.FilterState) (presentation.MapView, error) {
	filtered, err := s.fires(ctx, f)
	if err != nil {
		return presentation.MapView{}, err
	}
	view := presentation.BuildMap(filtered.Rows(), f.RadiusKm, s.color)
	if n := len(view.SkippedGeometries); n > 0 {
		s.metrics.AddGeometrySkipped(n)
		logger.FromContext(logger.WithStation(ctx, f.Station), &s.log).Warn().
			Strs("fire_labels", view.SkippedGeometries).
			Msg("fires without a drawable boundary left off the map")
	}
	return view, nil
}

// Analytics builds every chart of the Analytics tab. The trend chart shows
// the selected measures; nil selects the defaults.
func (s *DashboardService) Analytics(ctx context.Context, f domain.FilterState, measures []pipeline.Measure) (presentation.Analytics, error) {
	filtered, err := s.fires(ctx, f)
	if err != nil {
		return presentation.Analytics{}, err
	}
	if filtered.Empty() {
		return presentation.EmptyAnalytics(), nil
	}
	if measures == nil {
		measures = pipeline.DefaultMeasures()
	}

	var out presentation.Analytics
	for _, mode := range pipeline.AggregationModes() {
		tbl, err := pipeline.Aggregate(filtered, mode)
		if err != nil {
			return presentation.Analytics{}, err
		}
		switch t := tbl.(type) {
		case pipeline.YearDistanceTable:
			out.Heatmap = presentation.YearDistanceHeatmap(t)
		case pipeline.YearTypeTable:
			out.ByType = presentation.YearTypeBars(t)
		case pipeline.DurationDistanceTable:
			out.DurationDistance = presentation.DurationDistanceScatter(t)
		case pipeline.BurnDistanceTable:
			out.BurnDistance = presentation.BurnDistanceScatter(t)
		case pipeline.MeasuresTable:
			out.Trend = presentation.TrendLines(t, measures)
		default:
			return presentation.Analytics{}, fmt.Errorf("service: no chart for %v", mode)
		}
	}
	return out, nil
}

// RawData builds the Raw Data tab
func (s *DashboardService) RawData(ctx context.Context, f domain.FilterState) (presentation.RawTable, error) {
	filtered, err := s.fires(ctx, f)
	if err != nil {
		return presentation.RawTable{}, err
	}
	return presentation.BuildTable(filtered.Rows()), nil
}

// Health checks the analytical database
func (s *DashboardService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}
