package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/pipeline"
)

// parseFilterState reads the sidebar selections from the query string.
// Absent parameters keep their default.
func parseFilterState(c *fiber.Ctx, defaults domain.FilterState) (domain.FilterState, error) {
	f := defaults
	if s := c.Query("station"); s != "" {
		f.Station = s
	}

	var err error
	if f.RadiusKm, err = queryInt(c, "radius", defaults.RadiusKm); err != nil {
		return f, err
	}
	if f.Years.Min, err = queryInt(c, "year_min", defaults.Years.Min); err != nil {
		return f, err
	}
	if f.Years.Max, err = queryInt(c, "year_max", defaults.Years.Max); err != nil {
		return f, err
	}
	if f.FireAge, err = domain.ParseFireAgeBucket(c.Query("fire_age")); err != nil {
		return f, err
	}
	f.BurnStatuses = queryMulti(c, "burn_status")
	return f, nil
}

// parseMeasures returns nil when no measure parameter is given, so the
// defaults apply; "measure=" alone selects none.
func parseMeasures(c *fiber.Ctx) ([]pipeline.Measure, error) {
	if !c.Context().QueryArgs().Has("measure") {
		return nil, nil
	}
	out := make([]pipeline.Measure, 0)
	for _, label := range queryMulti(c, "measure") {
		m, err := pipeline.ParseMeasure(label)
		if err != nil {
			return nil, &domain.ParseError{Field: "measure", Err: err}
		}
		out = append(out, m)
	}
	return out, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, &domain.ParseError{Field: key, Err: fmt.Errorf("%q is not an integer", raw)}
	}
	return n, nil
}

// queryMulti collects every non-empty value of a repeated parameter
func queryMulti(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
