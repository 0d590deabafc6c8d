// Package presentation reshapes fire records and aggregated tables into the
// payloads each dashboard widget renders: deck.gl layers, chart series and the
// raw data grid.
package presentation

import "strconv"

// Messages shown instead of widgets
const (
	NoRecordsMessage     = "No fire records found based on the selected criteria!"
	NoMeasuresMessage    = "Please select at least one measure."
	UnknownOutDate       = "Unknown"
	unknownDurationLabel = ""
)

// FormatYear renders a year as a plain integer label for categorical axes
func FormatYear(year int) string {
	return strconv.Itoa(year)
}

// ZoomForRadius picks the initial map zoom for a lookup radius in km
func ZoomForRadius(radiusKm int) int {
	switch {
	case radiusKm <= 10:
		return 12
	case radiusKm <= 50:
		return 10
	default:
		return 8
	}
}

// RGB is a deck.gl color triple
type RGB [3]uint8

// ColorFunc maps a fire's percentage burnt to its polygon fill
type ColorFunc func(percentageBurnt float64) RGB

// FireRed is the default polygon fill
var FireRed = RGB{255, 0, 0}

// FireOrange marks lightly burnt areas when a threshold color is configured
var FireOrange = RGB{255, 140, 0}

// ConstantColor ignores its input
func ConstantColor(c RGB) ColorFunc {
	return func(float64) RGB { return c }
}

// ThresholdColor switches from below to atOrAbove once percentage burnt reaches threshold
func ThresholdColor(threshold float64, below, atOrAbove RGB) ColorFunc {
	return func(pct float64) RGB {
		if pct < threshold {
			return below
		}
		return atOrAbove
	}
}

// DefaultColor is the fill in use for fire polygons
func DefaultColor() ColorFunc {
	return ConstantColor(FireRed)
}
