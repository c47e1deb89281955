// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lanekeeper/lanekeeper/internal/catalog"
	"github.com/lanekeeper/lanekeeper/internal/metrics"
	"github.com/lanekeeper/lanekeeper/internal/model"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

// Service errors.
var (
	ErrInvalidInterval    = errors.New("start must be before end")
	ErrUnknownLane        = errors.New("unknown lane")
	ErrSlotTaken          = errors.New("lane already reserved for that interval")
	ErrNotFound           = errors.New("reservation not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrMissingFields      = errors.New("missing required fields")
	ErrUnauthenticated    = errors.New("invalid or missing session token")
)

// ReservationService is the only entry point permitted to mutate the ledger.
// It validates the interval and the lane, then delegates the atomic
// check-then-insert to the ledger.
type ReservationService struct {
	ledger  store.ReservationStore
	catalog *catalog.Catalog
	metrics metrics.Recorder
}

// NewReservationService creates a new ReservationService.
func NewReservationService(ledger store.ReservationStore, cat *catalog.Catalog, recorder metrics.Recorder) *ReservationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ReservationService{
		ledger:  ledger,
		catalog: cat,
		metrics: recorder,
	}
}

// ReserveInput defines input for creating a reservation.
type ReserveInput struct {
	RequesterID string
	LaneID      int
	Start       time.Time
	End         time.Time
}

// Reserve books a lane for the half-open interval [Start, End).
// A conflict leaves no partial state behind; the caller may retry with a
// different lane or interval.
func (s *ReservationService) Reserve(ctx context.Context, input ReserveInput) (*model.Reservation, error) {
	if !input.Start.Before(input.End) {
		return nil, ErrInvalidInterval
	}
	if !s.catalog.Contains(input.LaneID) {
		return nil, ErrUnknownLane
	}

	res := &model.Reservation{
		ID:        ulid.Make().String(),
		LaneID:    input.LaneID,
		OwnerID:   input.RequesterID,
		Start:     input.Start.UTC(),
		End:       input.End.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.ledger.Create(ctx, res); err != nil {
		if errors.Is(err, store.ErrSlotTaken) {
			s.metrics.IncSlotConflict()
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.metrics.IncReservationCreated()
	return res, nil
}

// Cancel removes the requester's reservation. Absence and ownership mismatch
// are both reported as ErrNotFound.
func (s *ReservationService) Cancel(ctx context.Context, requesterID, reservationID string) error {
	err := s.ledger.Delete(ctx, reservationID, requesterID)
	if err != nil {
		if errors.Is(err, store.ErrReservationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	s.metrics.IncReservationCancelled()
	return nil
}

// ListMine returns the requester's reservations in insertion order.
func (s *ReservationService) ListMine(ctx context.Context, requesterID string) ([]*model.Reservation, error) {
	reservations, err := s.ledger.ListForUser(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// ListAll returns every reservation, optionally filtered to a UTC date.
func (s *ReservationService) ListAll(ctx context.Context, day time.Time) ([]*model.Reservation, error) {
	reservations, err := s.ledger.ListAll(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}
