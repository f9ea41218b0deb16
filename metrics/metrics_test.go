package metrics_test

import (
	"sync"
	"testing"

	"github.com/mshiomi/portalauth/metrics"
)

func TestCounters_StartAtZero(t *testing.T) {
	m := metrics.NewMetrics()
	roundTrips, started, completed, failures := m.Snapshot()
	if roundTrips != 0 || started != 0 || completed != 0 || failures != 0 {
		t.Errorf("fresh instance not zeroed: %d %d %d %d", roundTrips, started, completed, failures)
	}
}

func TestIncrements(t *testing.T) {
	m := metrics.NewMetrics()
	m.IncrementRoundTrip()
	m.IncrementRoundTrip()
	m.IncrementAttempt()
	m.IncrementCompleted()
	m.IncrementValidationFailure()

	roundTrips, started, completed, failures := m.Snapshot()
	if roundTrips != 2 {
		t.Errorf("round trips %d, want 2", roundTrips)
	}
	if started != 1 || completed != 1 || failures != 1 {
		t.Errorf("started %d, completed %d, failures %d, want 1 each", started, completed, failures)
	}
}

func TestIncrements_Concurrent(t *testing.T) {
	m := metrics.NewMetrics()
	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.IncrementRoundTrip()
			}
		}()
	}
	wg.Wait()

	roundTrips, _, _, _ := m.Snapshot()
	if roundTrips != goroutines*perGoroutine {
		t.Errorf("round trips %d, want %d", roundTrips, goroutines*perGoroutine)
	}
}

func TestRoundTripsPerSecond_NonNegative(t *testing.T) {
	m := metrics.NewMetrics()
	m.IncrementRoundTrip()
	if rps := m.RoundTripsPerSecond(); rps < 0 {
		t.Errorf("negative rate %f", rps)
	}
}
