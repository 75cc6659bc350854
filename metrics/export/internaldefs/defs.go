package internaldefs

import (
	goSessionClient "github.com/MrEthical07/goSessionClient"
)

// CounterDef defines a public type used by goSessionClient APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSessionClient.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSessionClient APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSessionClient.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session client.
var CounterDefs = []CounterDef{
	{ID: goSessionClient.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful login attempts."},
	{ID: goSessionClient.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Failed login attempts."},
	{ID: goSessionClient.MetricSignupSuccess, Name: "gosession_signup_success_total", Help: "Successful signups."},
	{ID: goSessionClient.MetricSignupFailure, Name: "gosession_signup_failure_total", Help: "Failed signups."},
	{ID: goSessionClient.MetricLogout, Name: "gosession_logout_total", Help: "Logout operations."},
	{ID: goSessionClient.MetricLogoutBackendFailed, Name: "gosession_logout_backend_failed_total", Help: "Logout backend notifications that failed after the local clear."},
	{ID: goSessionClient.MetricVerifySuccess, Name: "gosession_verify_success_total", Help: "Successful session verifications."},
	{ID: goSessionClient.MetricVerifyFailure, Name: "gosession_verify_failure_total", Help: "Failed session verifications."},
	{ID: goSessionClient.MetricRefreshSuccess, Name: "gosession_refresh_success_total", Help: "Successful credential refreshes."},
	{ID: goSessionClient.MetricRefreshFailure, Name: "gosession_refresh_failure_total", Help: "Failed credential refreshes."},
	{ID: goSessionClient.MetricSessionCleared, Name: "gosession_session_cleared_total", Help: "Session clear operations."},
	{ID: goSessionClient.MetricInitializeCompleted, Name: "gosession_initialize_completed_total", Help: "Completed session initializations."},
	{ID: goSessionClient.MetricUserUpdated, Name: "gosession_user_updated_total", Help: "Local user profile updates."},
	{ID: goSessionClient.MetricPasswordForgotRequest, Name: "gosession_password_forgot_request_total", Help: "Password reset link requests."},
	{ID: goSessionClient.MetricPasswordResetSuccess, Name: "gosession_password_reset_success_total", Help: "Successful password resets."},
	{ID: goSessionClient.MetricPasswordResetFailure, Name: "gosession_password_reset_failure_total", Help: "Failed password resets."},
	{ID: goSessionClient.MetricPasswordChangeSuccess, Name: "gosession_password_change_success_total", Help: "Successful password changes."},
	{ID: goSessionClient.MetricPasswordChangeFailure, Name: "gosession_password_change_failure_total", Help: "Failed password changes."},
	{ID: goSessionClient.MetricRequestNetworkError, Name: "gosession_request_network_error_total", Help: "Requests that failed before a response was obtained."},
	{ID: goSessionClient.MetricRequestHTTPError, Name: "gosession_request_http_error_total", Help: "Requests rejected by the backend."},
	{ID: goSessionClient.MetricSnapshotSaveFailure, Name: "gosession_snapshot_save_failure_total", Help: "Snapshot writes that failed."},
	{ID: goSessionClient.MetricSnapshotCorrupt, Name: "gosession_snapshot_corrupt_total", Help: "Corrupt snapshots discarded during initialization."},
}

// HistogramDefs is an exported constant or variable used by the session client.
var HistogramDefs = []HistogramDef{
	{ID: goSessionClient.MetricRequestLatency, Name: "gosession_request_latency_seconds", Help: "Request round-trip latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
