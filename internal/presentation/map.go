package presentation

import (
	"strconv"

	"github.com/firehistory/backend/internal/domain"
)

// Layer is one deck.gl layer: its type, id, data and accessor props
type Layer struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Data  any            `json:"data"`
	Props map[string]any `json:"props"`
}

// ViewState positions the map at render time
type ViewState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      int     `json:"zoom"`
	Pitch     int     `json:"pitch"`
	Height    int     `json:"height"`
}

// Tooltip is the hover template for the fire polygons
type Tooltip struct {
	HTML  string            `json:"html"`
	Style map[string]string `json:"style"`
}

// FirePolygon is one datum of the fire boundary layer
type FirePolygon struct {
	Coordinates            []Ring  `json:"coordinates"`
	Color                  RGB     `json:"color"`
	FireLabel              string  `json:"fire_label"`
	GeneralLocation        string  `json:"general_location"`
	FireType               string  `json:"fire_type"`
	BurnStatus             string  `json:"burn_status"`
	IgnitionDate           string  `json:"ignition_date"`
	OutDate                string  `json:"out_date"`
	FireLifetimeDays       string  `json:"fire_lifetime_days"`
	AreaHectare            float64 `json:"area_hectare"`
	PercentageBurnt        float64 `json:"percentage_burnt"`
	DistanceKm             float64 `json:"distance_from_station_km"`
	BrigadeName            string  `json:"brigade_name"`
	RuralArea              string  `json:"rural_area"`
	IntersectingProperties int     `json:"count_of_intersecting_properties"`
}

// StationPoint is the datum of the station point and label layers
type StationPoint struct {
	Station     string     `json:"station"`
	Coordinates [2]float64 `json:"station_coordinates"`
}

// MapView is the Map tab payload
type MapView struct {
	NoRecords bool       `json:"no_records"`
	Message   string     `json:"message,omitempty"`
	ViewState *ViewState `json:"initial_view_state,omitempty"`
	Layers    []Layer    `json:"layers,omitempty"`
	Tooltip   *Tooltip   `json:"tooltip,omitempty"`
	// SkippedGeometries lists fires left off the map for missing or malformed boundaries
	SkippedGeometries []string `json:"skipped_geometries,omitempty"`
}

const tooltipHTML = `<table>` +
	`<tr><td><b>Fire Label:</b></td><td>{fire_label}<br/></td></tr>` +
	`<tr><td><b>General Location:</b></td><td>{general_location}<br/></td></tr>` +
	`<tr><td><b>Fire Type:</b></td><td>{fire_type}<br/></td></tr>` +
	`<tr><td><b>Burn Status:</b></td><td>{burn_status}<br/></td></tr>` +
	`<tr><td><b>Ignition Date:</b></td><td>{ignition_date}<br/></td></tr>` +
	`<tr><td><b>Out Date:</b></td><td>{out_date}<br/></td></tr>` +
	`<tr><td><b>Fire Life (days):</b></td><td>{fire_lifetime_days}<br/></td></tr>` +
	`<tr><td><b>Area (ha):</b></td><td>{area_hectare}<br/></td></tr>` +
	`<tr><td><b>Percentage Burnt:</b></td><td>{percentage_burnt}<br/></td></tr>` +
	`<tr><td><b>Distance from Station (km):</b></td><td>{distance_from_station_km}<br/></td></tr>` +
	`<tr><td><b>Brigade Name:</b></td><td>{brigade_name}<br/></td></tr>` +
	`<tr><td><b>Rural Area:</b></td><td>{rural_area}<br/></td></tr>` +
	`<tr><td><b>Intersecting Properties:</b></td><td>{count_of_intersecting_properties}<br/></td></tr>` +
	`</table>`

// BuildMap lays out the fire polygons and the selected station.
// Records with absent or unparseable boundaries are skipped here only.
func BuildMap(rows []domain.FireRecord, radiusKm int, color ColorFunc) MapView {
	if len(rows) == 0 {
		return MapView{NoRecords: true, Message: NoRecordsMessage}
	}
	if color == nil {
		color = DefaultColor()
	}

	var view MapView
	polygons := make([]FirePolygon, 0, len(rows))
	for _, r := range rows {
		if r.Geometry == nil {
			view.SkippedGeometries = append(view.SkippedGeometries, r.FireLabel)
			continue
		}
		rings, err := PolygonRings(*r.Geometry)
		if err != nil {
			view.SkippedGeometries = append(view.SkippedGeometries, r.FireLabel)
			continue
		}
		polygons = append(polygons, FirePolygon{
			Coordinates:            rings,
			Color:                  color(r.PercentageBurnt),
			FireLabel:              r.FireLabel,
			GeneralLocation:        r.GeneralLocation,
			FireType:               r.FireType,
			BurnStatus:             r.BurnStatus,
			IgnitionDate:           r.IgnitionDate.Format(domain.DateLayout),
			OutDate:                displayOutDate(r),
			FireLifetimeDays:       displayDuration(r),
			AreaHectare:            r.AreaHectare,
			PercentageBurnt:        r.PercentageBurnt,
			DistanceKm:             r.DistanceKm,
			BrigadeName:            r.Station.BrigadeName,
			RuralArea:              r.Station.RuralArea,
			IntersectingProperties: r.IntersectingProperties,
		})
	}

	// every row carries the same station; the first one positions the map
	st := rows[0].Station
	point := StationPoint{Station: st.Name, Coordinates: [2]float64{st.Longitude, st.Latitude}}
	if pos, err := PointPosition(st.Geometry); err == nil {
		point.Coordinates = pos
	}
	stations := []StationPoint{point}

	view.ViewState = &ViewState{
		Longitude: st.Longitude,
		Latitude:  st.Latitude,
		Zoom:      ZoomForRadius(radiusKm),
		Pitch:     0,
		Height:    800,
	}
	view.Layers = []Layer{
		{
			Type: "PolygonLayer",
			ID:   "fires",
			Data: polygons,
			Props: map[string]any{
				"opacity":            0.2,
				"stroked":            false,
				"filled":             true,
				"extruded":           true,
				"elevationScale":     0,
				"wireframe":          true,
				"getPolygon":         "coordinates",
				"getFillColor":       "color",
				"getLineColor":       RGB{0, 0, 0},
				"lineWidthMinPixels": 1,
				"autoHighlight":      true,
				"highlightColor":     RGB{189, 219, 0},
				"pickable":           true,
			},
		},
		{
			Type: "ScatterplotLayer",
			ID:   "stations",
			Data: stations,
			Props: map[string]any{
				"opacity":            1,
				"getPosition":        "station_coordinates",
				"stroked":            true,
				"filled":             true,
				"getFillColor":       RGB{255, 234, 0},
				"getRadius":          150,
				"radiusScale":        1,
				"getLineColor":       RGB{0, 0, 0},
				"lineWidthMinPixels": 2,
				"autoHighlight":      true,
				"pickable":           false,
			},
		},
		{
			Type: "TextLayer",
			ID:   "station-titles",
			Data: stations,
			Props: map[string]any{
				"pickable":             false,
				"getPosition":          "station_coordinates",
				"getText":              "station",
				"getSize":              20,
				"getColor":             RGB{0, 0, 0},
				"getAngle":             0,
				"getTextAnchor":        "start",
				"getAlignmentBaseline": "bottom",
			},
		},
	}
	view.Tooltip = &Tooltip{HTML: tooltipHTML, Style: map[string]string{"color": "white"}}
	return view
}

func displayOutDate(r domain.FireRecord) string {
	if r.OutDate == nil {
		return UnknownOutDate
	}
	return r.OutDate.Format(domain.DateLayout)
}

func displayDuration(r domain.FireRecord) string {
	if r.DurationDays == nil {
		return unknownDurationLabel
	}
	return strconv.Itoa(*r.DurationDays)
}
