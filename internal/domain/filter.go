package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NoStation is the explicit "nothing selected" entry of the station selector
const NoStation = "<Select>"

// Lookup radius bounds in kilometres
const (
	MinRadiusKm     = 10
	MaxRadiusKm     = 100
	DefaultRadiusKm = 10
)

// YearRange is an inclusive range of ignition years
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year falls inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// FilterState holds the current sidebar selections.
// Every field is always defined except Station, which gates whether a query runs at all.
type FilterState struct {
	Station      string        `json:"station"`
	RadiusKm     int           `json:"radius_km"`
	BurnStatuses []string      `json:"burn_statuses"`
	Years        YearRange     `json:"year_range"`
	FireAge      FireAgeBucket `json:"fire_age"`
}

// HasStation reports whether a real station is selected
func (f FilterState) HasStation() bool {
	s := strings.TrimSpace(f.Station)
	return s != "" && s != NoStation
}

// RadiusMeters converts the lookup radius for the distance predicate
func (f FilterState) RadiusMeters() int {
	return f.RadiusKm * 1000
}

// Validate checks the selections against the catalog of known filter values.
// An unselected station is valid; callers must short-circuit before querying.
func (f FilterState) Validate(opts FilterOptions) error {
	if f.RadiusKm < MinRadiusKm || f.RadiusKm > MaxRadiusKm {
		return &ParseError{Field: "radius", Err: fmt.Errorf("must be between %d and %d km, got %d", MinRadiusKm, MaxRadiusKm, f.RadiusKm)}
	}
	if f.Years.Min > f.Years.Max {
		return &ParseError{Field: "year_range", Err: fmt.Errorf("min year %d is after max year %d", f.Years.Min, f.Years.Max)}
	}
	if opts.MaxYear > 0 && (f.Years.Min < opts.MinYear || f.Years.Max > opts.MaxYear) {
		return &ParseError{Field: "year_range", Err: fmt.Errorf("must be within %d-%d", opts.MinYear, opts.MaxYear)}
	}
	if f.HasStation() && !opts.HasStation(f.Station) {
		return &ParseError{Field: "station", Err: fmt.Errorf("unknown station %q", f.Station)}
	}
	for _, s := range f.BurnStatuses {
		if !opts.HasBurnStatus(s) {
			return &ParseError{Field: "burn_status", Err: fmt.Errorf("unknown burn status %q", s)}
		}
	}
	return nil
}

// FireAgeBucket is the fire lifetime radio group
type FireAgeBucket int

const (
	FireAgeAll FireAgeBucket = iota
	FireAge0To7
	FireAge8To30
	FireAge31To90
	FireAge91To180
	FireAge181To360
	FireAgeOver360
)

var fireAgeLabels = [...]string{
	FireAgeAll:      "All",
	FireAge0To7:     "0-7 days",
	FireAge8To30:    "8-30 days",
	FireAge31To90:   "31-90 days",
	FireAge91To180:  "91-180 days",
	FireAge181To360: "181-360 days",
	FireAgeOver360:  "+360 days",
}

// FireAgeBuckets lists the buckets in display order
func FireAgeBuckets() []FireAgeBucket {
	out := make([]FireAgeBucket, 0, len(fireAgeLabels))
	for i := range fireAgeLabels {
		out = append(out, FireAgeBucket(i))
	}
	return out
}

func (b FireAgeBucket) String() string {
	if b < 0 || int(b) >= len(fireAgeLabels) {
		return "FireAgeBucket(" + strconv.Itoa(int(b)) + ")"
	}
	return fireAgeLabels[b]
}

// ParseFireAgeBucket resolves a radio label; an empty label means All
func ParseFireAgeBucket(label string) (FireAgeBucket, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return FireAgeAll, nil
	}
	for i, l := range fireAgeLabels {
		if strings.EqualFold(l, label) {
			return FireAgeBucket(i), nil
		}
	}
	return FireAgeAll, &ParseError{Field: "fire_age", Err: fmt.Errorf("unknown bucket %q", label)}
}

// DayRange returns the inclusive day bounds encoded in a bounded bucket label
// such as "8-30 days". ok is false for All and the open-ended bucket.
func (b FireAgeBucket) DayRange() (lo, hi int, ok bool) {
	if b == FireAgeAll || b == FireAgeOver360 {
		return 0, 0, false
	}
	lo, hi, err := parseDayRange(b.String())
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func parseDayRange(label string) (int, int, error) {
	span, _, _ := strings.Cut(label, " ")
	a, b, found := strings.Cut(span, "-")
	if !found {
		return 0, 0, fmt.Errorf("bucket %q has no day range", label)
	}
	lo, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("bucket %q: %w", label, err)
	}
	hi, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("bucket %q: %w", label, err)
	}
	return lo, hi, nil
}

// MarshalText renders the bucket as its UI label
func (b FireAgeBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts a UI label
func (b *FireAgeBucket) UnmarshalText(text []byte) error {
	v, err := ParseFireAgeBucket(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
