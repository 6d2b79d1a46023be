// Package retry implements bounded retry of the database health probe.
//
// The probe budget is strict: an unreachable database is probed exactly
// MaxAttempts times, then the last error is returned. Spacing between
// probes comes from a BackoffStrategy; the default for startup waits is
// ConstantBackoff, which keeps the fixed cadence operators expect from a
// container entrypoint. Errors pass through an ErrorClassifier so that
// configuration mistakes (bad credentials, unknown database) fail fast
// instead of burning the whole budget.
package retry
