package internaldefs

import (
	goAuthState "github.com/MrEthical07/goAuthState"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   goAuthState.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   goAuthState.MetricID
	Name string
	Help string
}

// AuditDroppedName is exported alongside the engine counters.
const (
	AuditDroppedName = "authstate_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped due to dispatcher backpressure."
)

var CounterDefs = []CounterDef{
	{ID: goAuthState.MetricLoginSuccess, Name: "authstate_login_success_total", Help: "Successful session logins."},
	{ID: goAuthState.MetricLoginRejected, Name: "authstate_login_rejected_total", Help: "Logins rejected for an empty token or invalid profile."},
	{ID: goAuthState.MetricLogout, Name: "authstate_logout_total", Help: "Logout calls."},
	{ID: goAuthState.MetricSetUser, Name: "authstate_set_user_total", Help: "Profile replacements."},
	{ID: goAuthState.MetricRehydrateRestored, Name: "authstate_rehydrate_restored_total", Help: "Hydrations that restored a session."},
	{ID: goAuthState.MetricRehydrateEmpty, Name: "authstate_rehydrate_empty_total", Help: "Hydrations that found no snapshot."},
	{ID: goAuthState.MetricRehydrateHealed, Name: "authstate_rehydrate_healed_total", Help: "Hydrations that corrected an inconsistent flag."},
	{ID: goAuthState.MetricRehydrateDiscarded, Name: "authstate_rehydrate_discarded_total", Help: "Hydrations that discarded a snapshot."},
	{ID: goAuthState.MetricSnapshotCorrupt, Name: "authstate_snapshot_corrupt_total", Help: "Snapshots that failed to decode."},
	{ID: goAuthState.MetricStorageWriteFailure, Name: "authstate_storage_write_failure_total", Help: "Failed snapshot writes."},
	{ID: goAuthState.MetricStorageReadFailure, Name: "authstate_storage_read_failure_total", Help: "Failed snapshot reads."},
	{ID: goAuthState.MetricCookieWritten, Name: "authstate_cookie_written_total", Help: "Session cookies written."},
	{ID: goAuthState.MetricCookieExpired, Name: "authstate_cookie_expired_total", Help: "Session cookies expired."},
	{ID: goAuthState.MetricCookieWriteFailure, Name: "authstate_cookie_write_failure_total", Help: "Failed cookie writes."},
	{ID: goAuthState.MetricAccessAllowed, Name: "authstate_access_allowed_total", Help: "Page access checks that passed."},
	{ID: goAuthState.MetricAccessDenied, Name: "authstate_access_denied_total", Help: "Page access checks that failed."},
	{ID: goAuthState.MetricPermissionCacheHit, Name: "authstate_permission_cache_hit_total", Help: "Permission cache hits."},
	{ID: goAuthState.MetricPermissionCacheMiss, Name: "authstate_permission_cache_miss_total", Help: "Permission cache misses."},
	{ID: goAuthState.MetricPermissionCacheCleared, Name: "authstate_permission_cache_cleared_total", Help: "Permission cache clears on logout."},
	{ID: goAuthState.MetricPermissionCacheClearFailure, Name: "authstate_permission_cache_clear_failure_total", Help: "Failed permission cache clears."},
	{ID: goAuthState.MetricCredentialExchangeSuccess, Name: "authstate_credential_exchange_success_total", Help: "Successful credential exchanges."},
	{ID: goAuthState.MetricCredentialExchangeFailure, Name: "authstate_credential_exchange_failure_total", Help: "Failed credential exchanges."},
	{ID: goAuthState.MetricLoginThrottled, Name: "authstate_login_throttled_total", Help: "Credential exchanges refused by the login throttle."},
}

var HistogramDefs = []HistogramDef{
	{ID: goAuthState.MetricCredentialExchangeLatency, Name: "authstate_credential_exchange_latency_seconds", Help: "Credential exchange latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds. The last
// engine bucket is +Inf.
var HistogramUpperBounds = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// HistogramBoundSuffix names every bucket, +Inf included, for exporters
// that flatten buckets into gauges.
var HistogramBoundSuffix = []string{
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"inf",
}

// BucketCount is the number of engine histogram buckets.
const BucketCount = 8

// NormalizeBuckets pads or truncates raw to [BucketCount] entries.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
