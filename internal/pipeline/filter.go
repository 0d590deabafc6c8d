// Package pipeline holds the post-filter and aggregation stages that turn
// proximity-join rows into chart-ready tables.
package pipeline

import (
	"github.com/firehistory/backend/internal/domain"
)

// LegacyOpenBucketMinDays is the duration the "+360 days" bucket has always
// filtered on. The label and the threshold disagree; the threshold is kept
// until the intended cutoff is confirmed and can be overridden by config.
const LegacyOpenBucketMinDays = 90

// FireAgePolicy configures the fire-age bucket predicates
type FireAgePolicy struct {
	// OpenBucketMinDays: "+360 days" keeps fires lasting strictly longer than this
	OpenBucketMinDays int
}

// DefaultFireAgePolicy keeps the historical behaviour
func DefaultFireAgePolicy() FireAgePolicy {
	return FireAgePolicy{OpenBucketMinDays: LegacyOpenBucketMinDays}
}

// FilteredFires is the output of the post-filter stage and the only input the
// aggregation stage accepts.
type FilteredFires struct {
	rows []domain.FireRecord
}

// Rows returns a copy of the filtered records
func (f FilteredFires) Rows() []domain.FireRecord {
	out := make([]domain.FireRecord, len(f.rows))
	copy(out, f.rows)
	return out
}

func (f FilteredFires) Len() int { return len(f.rows) }

func (f FilteredFires) Empty() bool { return len(f.rows) == 0 }

// ApplyFilters narrows the proximity-join result by burn status and fire age.
// Both predicates are independent, so order does not matter and the stage is idempotent.
func ApplyFilters(rows []domain.FireRecord, burnStatuses []string, bucket domain.FireAgeBucket, policy FireAgePolicy) FilteredFires {
	statuses := make(map[string]struct{}, len(burnStatuses))
	for _, s := range burnStatuses {
		statuses[s] = struct{}{}
	}
	keepAge := agePredicate(bucket, policy)

	out := make([]domain.FireRecord, 0, len(rows))
	for _, r := range rows {
		if !keepAge(r) {
			continue
		}
		if len(statuses) > 0 {
			if _, ok := statuses[r.BurnStatus]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return FilteredFires{rows: out}
}

// agePredicate resolves a bucket into a row predicate. A nil duration fails
// every numeric comparison.
func agePredicate(bucket domain.FireAgeBucket, policy FireAgePolicy) func(domain.FireRecord) bool {
	switch bucket {
	case domain.FireAgeAll:
		return func(domain.FireRecord) bool { return true }
	case domain.FireAgeOver360:
		threshold := policy.OpenBucketMinDays
		return func(r domain.FireRecord) bool {
			return r.DurationDays != nil && *r.DurationDays > threshold
		}
	case domain.FireAge0To7, domain.FireAge8To30, domain.FireAge31To90,
		domain.FireAge91To180, domain.FireAge181To360:
		lo, hi, _ := bucket.DayRange()
		return func(r domain.FireRecord) bool {
			return r.DurationDays != nil && *r.DurationDays >= lo && *r.DurationDays <= hi
		}
	default:
		return func(domain.FireRecord) bool { return false }
	}
}
