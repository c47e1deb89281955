package dto

import (
	"github.com/lanekeeper/lanekeeper/internal/model"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// LanesResponse is the body of GET /api/lanes.
type LanesResponse struct {
	Lanes []model.Lane `json:"lanes"`
}

// AvailabilityResponse is the body of GET /api/availability.
type AvailabilityResponse struct {
	Available       []model.Lane `json:"available"`
	OccupiedLaneIDs []int        `json:"occupiedLaneIds"`
}

// AuthResponse is the body of POST /api/register and POST /api/login.
type AuthResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// ReservationResponse wraps a single reservation.
type ReservationResponse struct {
	Reservation *model.Reservation `json:"reservation"`
}

// ReservationsResponse wraps a list of reservations.
type ReservationsResponse struct {
	Reservations []*model.Reservation `json:"reservations"`
}

// OKResponse acknowledges an operation with no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}
