// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Reservation lifecycle
	IncReservationCreated()
	IncReservationCancelled()
	IncSlotConflict()

	// Availability queries
	ObserveAvailabilityDuration(duration time.Duration)

	// Session lifecycle
	IncLoginSuccess()
	IncLoginFailure()
	IncRegistration()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
