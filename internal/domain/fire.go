package domain

import "time"

// DateLayout is the display format of ignition and out dates
const DateLayout = "2006-01-02"

// Station is the fire-station half of a proximity-join row
type Station struct {
	Name        string  `json:"station"`
	Longitude   float64 `json:"station_longitude"`
	Latitude    float64 `json:"station_latitude"`
	Geometry    string  `json:"station_geometry"` // GeoJSON point
	BrigadeName string  `json:"brigade_name"`
	RuralArea   string  `json:"rural_area"`
}

// FireRecord is one historical fire within the lookup radius of a station
type FireRecord struct {
	Station Station `json:"station"`

	FireLabel       string `json:"fire_label"`
	FireType        string `json:"fire_type"`
	BurnStatus      string `json:"burn_status"`
	GeneralLocation string `json:"general_location"`
	OwningAgency    string `json:"owning_agency"`

	IgnitionDate time.Time  `json:"ignition_date"`
	IgnitionYear int        `json:"ignition_year"`
	OutDate      *time.Time `json:"out_date"`
	// DurationDays is out_date - ignition_date, nil while the fire has no out date
	DurationDays *int `json:"fire_duration_days"`

	PercentageBurnt        float64 `json:"percentage_burnt"`
	AreaHectare            float64 `json:"area_hectare"`
	IntersectingProperties int     `json:"count_of_intersecting_properties"`

	// Geometry is the fire boundary as GeoJSON text, nil when absent
	Geometry   *string `json:"geometry,omitempty"`
	DistanceKm float64 `json:"distance_from_station_km"`
}

// HasDuration reports whether the fire has a known lifetime
func (r FireRecord) HasDuration() bool {
	return r.DurationDays != nil
}

// ResultTable is an untyped tabular result of an ad hoc read-only query
type ResultTable struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated"` // more rows matched than were read
}

// AssistantAnswer is the outcome of one natural-language question
type AssistantAnswer struct {
	Question string       `json:"question"`
	Response string       `json:"response"` // raw completion text, always shown for diagnosis
	SQL      string       `json:"sql"`
	Result   *ResultTable `json:"result,omitempty"`
	Error    string       `json:"error,omitempty"`
	Cached   bool         `json:"cached"`
}
