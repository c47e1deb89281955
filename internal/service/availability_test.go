package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/catalog"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

func TestAvailabilityQuery(t *testing.T) {
	ctx := context.Background()
	ledger := store.NewMemoryLedger()
	cat := catalog.New(14)
	reservations := NewReservationService(ledger, cat, nil)
	availability := NewAvailabilityService(ledger, cat, nil)

	start := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if _, err := reservations.Reserve(ctx, ReserveInput{RequesterID: "alice", LaneID: 3, Start: start, End: end}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	result, err := availability.Query(ctx, start, end)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(result.OccupiedLaneIDs) != 1 || result.OccupiedLaneIDs[0] != 3 {
		t.Fatalf("expected lane 3 occupied, got %v", result.OccupiedLaneIDs)
	}
	if len(result.Available) != 13 {
		t.Fatalf("expected 13 available lanes, got %d", len(result.Available))
	}
	for _, lane := range result.Available {
		if lane.ID == 3 {
			t.Fatal("occupied lane listed as available")
		}
	}
}

func TestAvailabilityQueryTouchingWindowIsFree(t *testing.T) {
	ctx := context.Background()
	ledger := store.NewMemoryLedger()
	cat := catalog.New(4)
	reservations := NewReservationService(ledger, cat, nil)
	availability := NewAvailabilityService(ledger, cat, nil)

	start := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if _, err := reservations.Reserve(ctx, ReserveInput{RequesterID: "alice", LaneID: 1, Start: start, End: end}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	// The hour right after the booking shares only the boundary instant.
	result, err := availability.Query(ctx, end, end.Add(time.Hour))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(result.OccupiedLaneIDs) != 0 {
		t.Fatalf("boundary window reported occupied lanes: %v", result.OccupiedLaneIDs)
	}
	if len(result.Available) != 4 {
		t.Fatalf("expected all 4 lanes available, got %d", len(result.Available))
	}
}

func TestAvailabilityQueryRejectsInvalidInterval(t *testing.T) {
	ctx := context.Background()
	ledger := store.NewMemoryLedger()
	availability := NewAvailabilityService(ledger, catalog.New(14), nil)

	at := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)

	if _, err := availability.Query(ctx, at, at); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if _, err := availability.Query(ctx, at.Add(time.Hour), at); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}
