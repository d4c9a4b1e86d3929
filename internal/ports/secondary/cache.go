package secondary

import "time"

// Cache keys and expiry for the aggregate snapshot views. The cache is
// advisory, never authoritative: readers recompute from the request store on
// miss or expiry.
const (
	CacheKeyPendingCount      = "pending_appointments_count"
	CacheKeyTodayAppointments = "today_appointments"

	SnapshotTTL = 5 * time.Minute
)

// SnapshotCache defines the secondary port for the short-lived keyed store
// holding aggregate views.
type SnapshotCache interface {
	// Set stores a value under key for ttl. Overwrites any previous value.
	Set(key string, value any, ttl time.Duration)

	// Get returns the value for key, or false when absent or expired.
	Get(key string) (any, bool)

	// Delete drops a key immediately.
	Delete(key string)
}
