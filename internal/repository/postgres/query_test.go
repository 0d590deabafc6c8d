package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/firehistory/backend/internal/domain"
)

func TestBuildFireQuery_BindsParameters(t *testing.T) {
	q := BuildFireQuery("ALPHA", 20, domain.YearRange{Min: 2015, Max: 2020})

	if len(q.Args) != 4 {
		t.Fatalf("args=%d want 4", len(q.Args))
	}
	if q.Args[0] != "ALPHA" {
		t.Fatalf("station arg=%v", q.Args[0])
	}
	if q.Args[1] != float64(20000) {
		t.Fatalf("radius must be converted to metres, got %v", q.Args[1])
	}
	if q.Args[2] != 2015 || q.Args[3] != 2020 {
		t.Fatalf("year args=%v,%v", q.Args[2], q.Args[3])
	}
	if strings.Contains(q.SQL, "ALPHA") {
		t.Fatalf("station name must not be interpolated into SQL")
	}
}

func TestBuildFireQuery_Predicates(t *testing.T) {
	sql := BuildFireQuery("ALPHA", 10, domain.YearRange{Min: 2000, Max: 2001}).SQL
	for _, want := range []string{
		"WHERE station = $1",
		"ON ST_DWithin(s.geography, f.geography, $2)",
		"ST_Distance(s.geography, f.geography) / 1000",
		"f.ignition_year BETWEEN $3 AND $4",
		"(out_date - ignition_date) AS fire_duration_days",
		"/ 1000)::numeric, 2)",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q", want)
		}
	}
}

func TestFilterOptionsQuery_Categories(t *testing.T) {
	sql := FilterOptionsQuery().SQL
	for _, cat := range []string{
		domain.CategoryFireType, domain.CategoryBurnStatus, domain.CategoryOwningAgency,
		domain.CategoryStation, domain.CategoryYear,
	} {
		if !strings.Contains(sql, "'"+cat+"'") {
			t.Errorf("lookup missing category %q", cat)
		}
	}
	if strings.Count(sql, "UNION ALL") != 4 {
		t.Errorf("expected four UNION ALL branches")
	}
}

func TestClassify(t *testing.T) {
	var qe *domain.QueryError
	if err := classify("op", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "42P01"})); !errors.As(err, &qe) {
		t.Fatalf("PgError should classify as QueryError, got %T", err)
	}
	if err := classify("op", context.DeadlineExceeded); !errors.As(err, &qe) {
		t.Fatalf("deadline should classify as QueryError, got %T", err)
	}
	var ce *domain.ConnectionError
	if err := classify("op", errors.New("dial tcp: connection refused")); !errors.As(err, &ce) {
		t.Fatalf("dial failure should classify as ConnectionError, got %T", err)
	}
}

func TestBuildFireQuery_JoinUsesIndexablePredicate(t *testing.T) {
	sql := BuildFireQuery("ALPHA", 10, domain.YearRange{Min: 2000, Max: 2001}).SQL
	if strings.Contains(sql, "<= $2") {
		t.Fatalf("radius must be applied with ST_DWithin, not a distance comparison")
	}
}

// fakeRows serves fixed values through pgx.Rows
type fakeRows struct {
	cols []string
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i].Name = c
	}
	return fds
}
func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}
func (r *fakeRows) Scan(...any) error      { return errors.New("not supported") }
func (r *fakeRows) Values() ([]any, error) { return r.data[r.i-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

func TestCollectAdHoc(t *testing.T) {
	data := [][]any{{int64(1)}, {int64(2)}, {int64(3)}}

	table, err := collectAdHoc(&fakeRows{cols: []string{"n"}, data: data}, 2)
	if err != nil {
		t.Fatalf("collectAdHoc: %v", err)
	}
	if len(table.Rows) != 2 || !table.Truncated || table.Columns[0] != "n" {
		t.Fatalf("table=%+v", table)
	}

	table, err = collectAdHoc(&fakeRows{cols: []string{"n"}, data: data}, 3)
	if err != nil || len(table.Rows) != 3 || table.Truncated {
		t.Fatalf("exact fit must not be flagged: %+v %v", table, err)
	}

	var qe *domain.QueryError
	if _, err := collectAdHoc(&fakeRows{err: &pgconn.PgError{Code: "57014"}}, 3); !errors.As(err, &qe) {
		t.Fatalf("rows error should classify as QueryError, got %v", err)
	}
}
