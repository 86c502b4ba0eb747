package lessons

import "time"

// RefreshInterval is how long a topic lesson stays fresh after generation.
const RefreshInterval = 48 * time.Hour

// NeedsRefresh reports whether a cached lesson of type t last generated at
// refreshedAt must be regenerated at now. The boundary is inclusive: a
// lesson exactly RefreshInterval old is stale.
//
// Assessments never refresh; whether one may be served at all is decided by
// the cache, not here.
func NeedsRefresh(refreshedAt time.Time, t Type, now time.Time) bool {
	if t == TypeAssessment {
		return false
	}
	return now.Sub(refreshedAt) >= RefreshInterval
}
