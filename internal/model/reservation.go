package model

import "time"

// Reservation represents a confirmed booking of a lane over the half-open
// interval [Start, End). Invariant: Start < End.
type Reservation struct {
	ID        string    `json:"id"`
	LaneID    int       `json:"laneId"`
	OwnerID   string    `json:"ownerId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"createdAt"`
}

// Overlaps reports whether the reservation shares any instant with the
// half-open interval [start, end). A reservation ending at 18:00 does not
// conflict with one starting at 18:00.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}
