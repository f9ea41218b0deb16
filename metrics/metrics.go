// Package metrics provides lightweight, lock-free counters for the login
// flow using atomic operations so they impose no overhead on the sequential
// request path.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics tracks aggregate statistics for login attempts.
//
// All counters are accessed exclusively through atomic operations: the struct
// may be shared between the orchestrator and a monitoring goroutine without
// additional synchronisation. Fields are uint64 and aligned to 64-bit
// boundaries to satisfy sync/atomic on 32-bit platforms.
type Metrics struct {
	// RoundTrips is the number of portal round trips dispatched since startup.
	RoundTrips uint64

	// AttemptsStarted counts login attempts entered at the Start state.
	AttemptsStarted uint64

	// AttemptsCompleted counts attempts that reached the resource-list page.
	AttemptsCompleted uint64

	// ValidationFailures counts responses that did not match the expected
	// page marker for their step. Each failure terminates its attempt.
	ValidationFailures uint64

	// startTime records when the metrics instance was created so that
	// RoundTripsPerSecond can compute a meaningful rate.
	startTime time.Time
}

// NewMetrics creates a Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// IncrementRoundTrip atomically increments the round-trip counter.
func (m *Metrics) IncrementRoundTrip() {
	atomic.AddUint64(&m.RoundTrips, 1)
}

// IncrementAttempt atomically increments the started-attempts counter.
func (m *Metrics) IncrementAttempt() {
	atomic.AddUint64(&m.AttemptsStarted, 1)
}

// IncrementCompleted atomically increments the completed-attempts counter.
func (m *Metrics) IncrementCompleted() {
	atomic.AddUint64(&m.AttemptsCompleted, 1)
}

// IncrementValidationFailure atomically increments the validation-failure
// counter.
func (m *Metrics) IncrementValidationFailure() {
	atomic.AddUint64(&m.ValidationFailures, 1)
}

// RoundTripsPerSecond returns the average round-trip rate since the Metrics
// instance was created. Returns 0 if called in the same wall-clock second as
// creation to avoid division by zero.
func (m *Metrics) RoundTripsPerSecond() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(atomic.LoadUint64(&m.RoundTrips)) / elapsed
}

// Snapshot returns a point-in-time copy of the counters. The four atomic
// loads are not performed under one lock, so the snapshot may be very
// slightly inconsistent at nanosecond granularity, which is acceptable for
// monitoring purposes.
func (m *Metrics) Snapshot() (roundTrips, started, completed, failures uint64) {
	return atomic.LoadUint64(&m.RoundTrips),
		atomic.LoadUint64(&m.AttemptsStarted),
		atomic.LoadUint64(&m.AttemptsCompleted),
		atomic.LoadUint64(&m.ValidationFailures)
}
