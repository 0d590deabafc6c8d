package domain

import "context"

// FireRepository defines the read-only contract with the analytical database.
// The domain owns the interface; repositories implement it.
type FireRepository interface {
	// FilterOptions runs the distinct-value lookup behind the sidebar controls
	FilterOptions(ctx context.Context) ([]FilterOption, error)

	// NearbyFires returns fires within radiusKm of station, ignited inside years
	NearbyFires(ctx context.Context, station string, radiusKm int, years YearRange) ([]FireRecord, error)

	// RunReadOnly executes an ad hoc statement without write access
	RunReadOnly(ctx context.Context, sql string) (ResultTable, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
