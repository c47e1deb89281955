package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/catalog"
	"github.com/lanekeeper/lanekeeper/internal/metrics"
	"github.com/lanekeeper/lanekeeper/internal/model"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

// Availability reports which lanes are free for a requested interval.
type Availability struct {
	Available       []model.Lane
	OccupiedLaneIDs []int
}

// AvailabilityService derives lane availability from the ledger.
// The result is a snapshot: it may be stale immediately after return, and
// Reserve re-validates regardless of any prior availability read.
type AvailabilityService struct {
	ledger  store.ReservationStore
	catalog *catalog.Catalog
	metrics metrics.Recorder
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(ledger store.ReservationStore, cat *catalog.Catalog, recorder metrics.Recorder) *AvailabilityService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AvailabilityService{
		ledger:  ledger,
		catalog: cat,
		metrics: recorder,
	}
}

// Query returns the lanes free over [start, end) and the ids of occupied
// lanes. A lane is occupied iff any reservation overlaps the interval.
func (s *AvailabilityService) Query(ctx context.Context, start, end time.Time) (*Availability, error) {
	if !start.Before(end) {
		return nil, ErrInvalidInterval
	}

	began := time.Now()
	defer func() {
		s.metrics.ObserveAvailabilityDuration(time.Since(began))
	}()

	result := &Availability{
		Available:       make([]model.Lane, 0, s.catalog.Len()),
		OccupiedLaneIDs: make([]int, 0),
	}

	for _, lane := range s.catalog.Lanes() {
		conflict, err := s.ledger.FindOverlapping(ctx, lane.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to check lane %d: %w", lane.ID, err)
		}
		if conflict != nil {
			result.OccupiedLaneIDs = append(result.OccupiedLaneIDs, lane.ID)
			continue
		}
		result.Available = append(result.Available, lane)
	}

	return result, nil
}
