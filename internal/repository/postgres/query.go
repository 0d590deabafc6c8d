package postgres

import (
	"github.com/firehistory/backend/internal/domain"
)

// Query is a parameterized statement ready for pgx
type Query struct {
	SQL  string
	Args []any
}

// filterOptionsSQL pulls every distinct value the sidebar controls offer
const filterOptionsSQL = `
	SELECT DISTINCT 'Fire Type' AS category, fire_type AS value FROM historical_fires WHERE fire_type IS NOT NULL
	UNION ALL
	SELECT DISTINCT 'Burn Status', burn_status FROM historical_fires WHERE burn_status IS NOT NULL
	UNION ALL
	SELECT DISTINCT 'Owning Agency', owning_agency FROM historical_fires WHERE owning_agency IS NOT NULL
	UNION ALL
	SELECT DISTINCT 'Station Name', station FROM fire_stations WHERE station IS NOT NULL
	UNION ALL
	SELECT DISTINCT 'Year', EXTRACT(YEAR FROM ignition_date)::int::text FROM historical_fires WHERE ignition_date IS NOT NULL
	ORDER BY 1, 2
`

// nearbyFiresSQL joins the selected station to every fire whose geography lies
// within $2 metres, bounded by ignition year. fire_duration_days stays NULL when
// out_date is missing.
const nearbyFiresSQL = `
	WITH fires AS (
		SELECT
			COALESCE(fire_label, '') AS fire_label,
			COALESCE(fire_type, '') AS fire_type,
			COALESCE(burn_status, '') AS burn_status,
			COALESCE(general_location, '') AS general_location,
			COALESCE(owning_agency, '') AS owning_agency,
			ignition_date,
			out_date,
			(out_date - ignition_date) AS fire_duration_days,
			EXTRACT(YEAR FROM ignition_date)::int AS ignition_year,
			COALESCE(percentage_burnt, 0)::float8 AS percentage_burnt,
			ROUND(COALESCE(area_hectare, 0)::numeric, 2)::float8 AS area_hectare,
			ST_AsGeoJSON(geometry) AS geometry,
			geography,
			COALESCE(count_of_intersecting_properties, 0)::int AS count_of_intersecting_properties
		FROM historical_fires
	),
	station AS (
		SELECT
			station,
			longitude,
			latitude,
			ST_AsGeoJSON(geometry) AS geometry,
			geography,
			COALESCE(brigade_name, '') AS brigade_name,
			COALESCE(rural_area, '') AS rural_area
		FROM fire_stations
		WHERE station = $1
	)
	SELECT
		s.station, s.longitude, s.latitude, COALESCE(s.geometry, ''), s.brigade_name, s.rural_area,
		f.fire_label, f.fire_type, f.burn_status, f.general_location, f.owning_agency,
		f.ignition_date, f.ignition_year, f.out_date, f.fire_duration_days,
		f.percentage_burnt, f.area_hectare, f.count_of_intersecting_properties, f.geometry,
		ROUND((ST_Distance(s.geography, f.geography) / 1000)::numeric, 2)::float8 AS distance_from_station_km
	FROM station s
	INNER JOIN fires f
		ON ST_DWithin(s.geography, f.geography, $2)
	WHERE f.ignition_year BETWEEN $3 AND $4
`

// BuildFireQuery produces the proximity-join query for one station.
// The caller must not call it for the unselected sentinel.
func BuildFireQuery(station string, radiusKm int, years domain.YearRange) Query {
	return Query{
		SQL:  nearbyFiresSQL,
		Args: []any{station, float64(radiusKm * 1000), years.Min, years.Max},
	}
}

// FilterOptionsQuery produces the distinct-value lookup
func FilterOptionsQuery() Query {
	return Query{SQL: filterOptionsSQL}
}
