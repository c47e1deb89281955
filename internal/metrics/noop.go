package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncReservationCreated is a no-op.
func (n *NoopRecorder) IncReservationCreated() {}

// IncReservationCancelled is a no-op.
func (n *NoopRecorder) IncReservationCancelled() {}

// IncSlotConflict is a no-op.
func (n *NoopRecorder) IncSlotConflict() {}

// ObserveAvailabilityDuration is a no-op.
func (n *NoopRecorder) ObserveAvailabilityDuration(duration time.Duration) {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration() {}
