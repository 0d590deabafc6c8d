package presentation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/firehistory/backend/internal/domain"
)

// TableColumns are the raw data grid headers in display order
var TableColumns = []string{
	"STATION", "FIRE_LABEL", "GENERAL_LOCATION", "FIRE_TYPE", "BURN_STATUS",
	"IGNITION_DATE", "OUT_DATE", "FIRE_DURATION_DAYS", "PERCENTAGE_BURNT",
	"AREA_HECTARE", "COUNT_OF_INTERSECTING_PROPERTIES",
}

// TableRow is one raw data grid row with display-ready dates and lifetime
type TableRow struct {
	Station                string  `json:"STATION"`
	FireLabel              string  `json:"FIRE_LABEL"`
	GeneralLocation        string  `json:"GENERAL_LOCATION"`
	FireType               string  `json:"FIRE_TYPE"`
	BurnStatus             string  `json:"BURN_STATUS"`
	IgnitionDate           string  `json:"IGNITION_DATE"`
	OutDate                string  `json:"OUT_DATE"`
	FireDurationDays       string  `json:"FIRE_DURATION_DAYS"`
	PercentageBurnt        float64 `json:"PERCENTAGE_BURNT"`
	AreaHectare            float64 `json:"AREA_HECTARE"`
	IntersectingProperties int     `json:"COUNT_OF_INTERSECTING_PROPERTIES"`
}

// RawTable is the Raw Data tab payload
type RawTable struct {
	NoRecords bool       `json:"no_records"`
	Message   string     `json:"message,omitempty"`
	Columns   []string   `json:"columns,omitempty"`
	Rows      []TableRow `json:"rows,omitempty"`
}

// ToTableRow formats a record for the grid. A missing out date shows as
// "Unknown" and a missing lifetime as an empty cell, never 0.
func ToTableRow(r domain.FireRecord) TableRow {
	return TableRow{
		Station:                r.Station.Name,
		FireLabel:              r.FireLabel,
		GeneralLocation:        r.GeneralLocation,
		FireType:               r.FireType,
		BurnStatus:             r.BurnStatus,
		IgnitionDate:           r.IgnitionDate.Format(domain.DateLayout),
		OutDate:                displayOutDate(r),
		FireDurationDays:       displayDuration(r),
		PercentageBurnt:        r.PercentageBurnt,
		AreaHectare:            r.AreaHectare,
		IntersectingProperties: r.IntersectingProperties,
	}
}

// BuildTable formats every record, or signals that there are none
func BuildTable(rows []domain.FireRecord) RawTable {
	if len(rows) == 0 {
		return RawTable{NoRecords: true, Message: NoRecordsMessage}
	}
	out := RawTable{Columns: TableColumns, Rows: make([]TableRow, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, ToTableRow(r))
	}
	return out
}

// Record reads the grid columns back into a fire record
func (t TableRow) Record() (domain.FireRecord, error) {
	ignition, err := time.Parse(domain.DateLayout, t.IgnitionDate)
	if err != nil {
		return domain.FireRecord{}, &domain.ParseError{Field: "IGNITION_DATE", Err: err}
	}
	rec := domain.FireRecord{
		Station:                domain.Station{Name: t.Station},
		FireLabel:              t.FireLabel,
		GeneralLocation:        t.GeneralLocation,
		FireType:               t.FireType,
		BurnStatus:             t.BurnStatus,
		IgnitionDate:           ignition,
		IgnitionYear:           ignition.Year(),
		PercentageBurnt:        t.PercentageBurnt,
		AreaHectare:            t.AreaHectare,
		IntersectingProperties: t.IntersectingProperties,
	}
	if t.OutDate != UnknownOutDate {
		out, err := time.Parse(domain.DateLayout, t.OutDate)
		if err != nil {
			return domain.FireRecord{}, &domain.ParseError{Field: "OUT_DATE", Err: err}
		}
		rec.OutDate = &out
	}
	if t.FireDurationDays != unknownDurationLabel {
		d, err := strconv.Atoi(t.FireDurationDays)
		if err != nil {
			return domain.FireRecord{}, &domain.ParseError{Field: "FIRE_DURATION_DAYS", Err: fmt.Errorf("%q: %w", t.FireDurationDays, err)}
		}
		rec.DurationDays = &d
	}
	return rec, nil
}
