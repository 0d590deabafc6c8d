package presentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Ring is a closed list of [lon, lat] positions
type Ring [][2]float64

// PolygonRings extracts the rings of the first polygon in a GeoJSON Polygon
// or MultiPolygon payload. deck.gl's PolygonLayer draws one polygon per datum.
func PolygonRings(geojson string) ([]Ring, error) {
	var v struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(geojson), &v); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	var rings []Ring
	switch strings.TrimSpace(v.Type) {
	case "Polygon":
		if err := json.Unmarshal(v.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("parse polygon coords: %w", err)
		}
	case "MultiPolygon":
		var polys [][]Ring
		if err := json.Unmarshal(v.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("parse multipolygon coords: %w", err)
		}
		if len(polys) == 0 {
			return nil, errors.New("empty multipolygon")
		}
		rings = polys[0]
	default:
		return nil, fmt.Errorf("unsupported type %q", v.Type)
	}
	if len(rings) == 0 || len(rings[0]) < 4 {
		return nil, errors.New("outer ring has < 4 vertices")
	}
	return rings, nil
}

// PointPosition extracts [lon, lat] from a GeoJSON Point payload
func PointPosition(geojson string) ([2]float64, error) {
	var v struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(geojson), &v); err != nil {
		return [2]float64{}, fmt.Errorf("parse geojson: %w", err)
	}
	if v.Type != "Point" {
		return [2]float64{}, fmt.Errorf("unsupported type %q", v.Type)
	}
	return v.Coordinates, nil
}
