package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ReservationsCreated         uint64
	ReservationsCancelled       uint64
	SlotConflicts               uint64
	AvailabilityQueryCount      uint64
	AvailabilityDurationTotalNs int64
	LoginSuccesses              uint64
	LoginFailures               uint64
	Registrations               uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	reservationsCreated         uint64
	reservationsCancelled       uint64
	slotConflicts               uint64
	availabilityQueryCount      uint64
	availabilityDurationTotalNs int64
	loginSuccesses              uint64
	loginFailures               uint64
	registrations               uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ReservationsCreated:         atomic.LoadUint64(&m.reservationsCreated),
		ReservationsCancelled:       atomic.LoadUint64(&m.reservationsCancelled),
		SlotConflicts:               atomic.LoadUint64(&m.slotConflicts),
		AvailabilityQueryCount:      atomic.LoadUint64(&m.availabilityQueryCount),
		AvailabilityDurationTotalNs: atomic.LoadInt64(&m.availabilityDurationTotalNs),
		LoginSuccesses:              atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:               atomic.LoadUint64(&m.loginFailures),
		Registrations:               atomic.LoadUint64(&m.registrations),
	}
}

// IncReservationCreated increments the created counter.
func (m *InMemoryRecorder) IncReservationCreated() {
	atomic.AddUint64(&m.reservationsCreated, 1)
}

// IncReservationCancelled increments the cancelled counter.
func (m *InMemoryRecorder) IncReservationCancelled() {
	atomic.AddUint64(&m.reservationsCancelled, 1)
}

// IncSlotConflict increments the conflict counter.
func (m *InMemoryRecorder) IncSlotConflict() {
	atomic.AddUint64(&m.slotConflicts, 1)
}

// ObserveAvailabilityDuration records an availability query duration.
func (m *InMemoryRecorder) ObserveAvailabilityDuration(duration time.Duration) {
	atomic.AddUint64(&m.availabilityQueryCount, 1)
	atomic.AddInt64(&m.availabilityDurationTotalNs, duration.Nanoseconds())
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncRegistration increments the registration counter.
func (m *InMemoryRecorder) IncRegistration() {
	atomic.AddUint64(&m.registrations, 1)
}
