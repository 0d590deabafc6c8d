package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Filter option categories returned by the distinct-value lookup
const (
	CategoryFireType     = "Fire Type"
	CategoryBurnStatus   = "Burn Status"
	CategoryOwningAgency = "Owning Agency"
	CategoryStation      = "Station Name"
	CategoryYear         = "Year"
)

// FilterOption is one (category, value) row of the lookup
type FilterOption struct {
	Category string
	Value    string
}

// FilterOptions is the read-only catalog behind the sidebar controls.
// Built once per process and never mutated afterwards.
type FilterOptions struct {
	FireTypes      []string `json:"fire_types"`
	BurnStatuses   []string `json:"burn_statuses"`
	OwningAgencies []string `json:"owning_agencies"`
	Stations       []string `json:"stations"`
	MinYear        int      `json:"min_year"`
	MaxYear        int      `json:"max_year"`

	stations     map[string]struct{}
	burnStatuses map[string]struct{}
}

// NewFilterOptions folds lookup rows into a catalog
func NewFilterOptions(rows []FilterOption) (FilterOptions, error) {
	var o FilterOptions
	years := make([]int, 0)
	for _, r := range rows {
		switch r.Category {
		case CategoryFireType:
			o.FireTypes = append(o.FireTypes, r.Value)
		case CategoryBurnStatus:
			o.BurnStatuses = append(o.BurnStatuses, r.Value)
		case CategoryOwningAgency:
			o.OwningAgencies = append(o.OwningAgencies, r.Value)
		case CategoryStation:
			o.Stations = append(o.Stations, r.Value)
		case CategoryYear:
			y, err := strconv.Atoi(r.Value)
			if err != nil {
				return FilterOptions{}, &ParseError{Field: "year option", Err: fmt.Errorf("%q: %w", r.Value, err)}
			}
			years = append(years, y)
		}
	}
	if len(years) > 0 {
		sort.Ints(years)
		o.MinYear, o.MaxYear = years[0], years[len(years)-1]
	}
	o.index()
	return o, nil
}

func (o *FilterOptions) index() {
	o.stations = make(map[string]struct{}, len(o.Stations))
	for _, s := range o.Stations {
		o.stations[s] = struct{}{}
	}
	o.burnStatuses = make(map[string]struct{}, len(o.BurnStatuses))
	for _, s := range o.BurnStatuses {
		o.burnStatuses[s] = struct{}{}
	}
}

// HasStation matches the canonical station name exactly
func (o FilterOptions) HasStation(name string) bool {
	_, ok := o.stations[name]
	return ok
}

func (o FilterOptions) HasBurnStatus(s string) bool {
	_, ok := o.burnStatuses[s]
	return ok
}

// Years is the full observed year range, the default slider position
func (o FilterOptions) Years() YearRange {
	return YearRange{Min: o.MinYear, Max: o.MaxYear}
}
