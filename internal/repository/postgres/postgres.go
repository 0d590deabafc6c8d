package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firehistory/backend/internal/domain"
)

// maxAdHocRows bounds the result of assistant-generated statements
const maxAdHocRows = 1000

// PostgresRepository implements domain.FireRepository on PostGIS
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FilterOptions runs the distinct-value lookup
func (r *PostgresRepository) FilterOptions(ctx context.Context) ([]domain.FilterOption, error) {
	q := FilterOptionsQuery()
	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, classify("filter options", fmt.Errorf("postgres: failed to query filter options: %w", err))
	}
	defer rows.Close()

	var results []domain.FilterOption
	for rows.Next() {
		var o domain.FilterOption
		if err := rows.Scan(&o.Category, &o.Value); err != nil {
			return nil, &domain.ParseError{Field: "filter option row", Err: fmt.Errorf("postgres: failed to scan filter option: %w", err)}
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("filter options", fmt.Errorf("postgres: filter options rows: %w", err))
	}

	return results, nil
}

// NearbyFires executes the proximity join for one station
func (r *PostgresRepository) NearbyFires(ctx context.Context, station string, radiusKm int, years domain.YearRange) ([]domain.FireRecord, error) {
	q := BuildFireQuery(station, radiusKm, years)

	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, classify("nearby fires", fmt.Errorf("postgres: failed to query nearby fires: %w", err))
	}
	defer rows.Close()

	var results []domain.FireRecord
	for rows.Next() {
		rec, err := scanFire(rows)
		if err != nil {
			return nil, &domain.ParseError{Field: "fire row", Err: fmt.Errorf("postgres: failed to scan fire row: %w", err)}
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("nearby fires", fmt.Errorf("postgres: nearby fires rows: %w", err))
	}

	return results, nil
}

func scanFire(rows pgx.Rows) (domain.FireRecord, error) {
	var (
		f        domain.FireRecord
		ignition time.Time
		out      *time.Time
		duration *int32
	)
	err := rows.Scan(
		&f.Station.Name, &f.Station.Longitude, &f.Station.Latitude, &f.Station.Geometry,
		&f.Station.BrigadeName, &f.Station.RuralArea,
		&f.FireLabel, &f.FireType, &f.BurnStatus, &f.GeneralLocation, &f.OwningAgency,
		&ignition, &f.IgnitionYear, &out, &duration,
		&f.PercentageBurnt, &f.AreaHectare, &f.IntersectingProperties, &f.Geometry,
		&f.DistanceKm,
	)
	if err != nil {
		return domain.FireRecord{}, err
	}
	f.IgnitionDate = ignition
	f.OutDate = out
	if duration != nil {
		d := int(*duration)
		f.DurationDays = &d
	}
	return f, nil
}

// RunReadOnly executes an ad hoc statement inside a READ ONLY transaction
func (r *PostgresRepository) RunReadOnly(ctx context.Context, sql string) (domain.ResultTable, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return domain.ResultTable{}, classify("read-only query", fmt.Errorf("postgres: failed to begin read-only tx: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, sql)
	if err != nil {
		return domain.ResultTable{}, classify("read-only query", fmt.Errorf("postgres: failed to run ad hoc query: %w", err))
	}
	defer rows.Close()

	return collectAdHoc(rows, maxAdHocRows)
}

// collectAdHoc reads at most limit rows and flags the table when more remain
func collectAdHoc(rows pgx.Rows, limit int) (domain.ResultTable, error) {
	var table domain.ResultTable
	for _, fd := range rows.FieldDescriptions() {
		table.Columns = append(table.Columns, fd.Name)
	}
	for rows.Next() {
		if len(table.Rows) >= limit {
			table.Truncated = true
			break
		}
		vals, err := rows.Values()
		if err != nil {
			return domain.ResultTable{}, &domain.ParseError{Field: "ad hoc row", Err: fmt.Errorf("postgres: failed to read ad hoc row: %w", err)}
		}
		table.Rows = append(table.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return domain.ResultTable{}, classify("read-only query", fmt.Errorf("postgres: ad hoc rows: %w", err))
	}

	return table, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return &domain.ConnectionError{Op: "ping", Err: fmt.Errorf("postgres: health check failed: %w", err)}
	}
	return nil
}

// classify turns a pgx failure into a typed domain error: anything the server
// rejected is a QueryError, everything else never reached it.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.QueryError{Op: op, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.QueryError{Op: op, Err: err}
	}
	return &domain.ConnectionError{Op: op, Err: err}
}
