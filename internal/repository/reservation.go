package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lanekeeper/lanekeeper/internal/model"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

// overlapCondition matches reservations sharing any instant with the
// half-open interval [$2, $3) on lane $1.
const overlapCondition = `lane_id = $1 AND start_at < $3 AND $2 < end_at`

// FindOverlapping returns any reservation for laneID overlapping [start, end).
func (r *Repository) FindOverlapping(ctx context.Context, laneID int, start, end time.Time) (*model.Reservation, error) {
	query := `
		SELECT id, lane_id, owner_id, start_at, end_at, created_at
		FROM reservations
		WHERE ` + overlapCondition + `
		LIMIT 1
	`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, laneID, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find overlapping reservation: %w", err)
	}

	return res, nil
}

// Create inserts the reservation unless the slot is taken. A transaction-scoped
// advisory lock keyed by lane id serializes concurrent reserves for the same
// lane, making the overlap check and the insert one atomic unit.
func (r *Repository) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(res.LaneID)); err != nil {
		return fmt.Errorf("failed to lock lane %d: %w", res.LaneID, err)
	}

	var conflict int
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM reservations WHERE `+overlapCondition+` LIMIT 1`,
		res.LaneID, res.Start, res.End,
	).Scan(&conflict)
	switch {
	case err == nil:
		return store.ErrSlotTaken
	case errors.Is(err, pgx.ErrNoRows):
		// Slot is free.
	default:
		return fmt.Errorf("failed to check for conflicts: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (id, lane_id, owner_id, start_at, end_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, res.ID, res.LaneID, res.OwnerID, res.Start, res.End, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

// Delete removes the reservation when it exists and requesterID owns it.
// Ownership mismatch and absence are both store.ErrReservationNotFound.
func (r *Repository) Delete(ctx context.Context, id, requesterID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM reservations WHERE id = $1 AND owner_id = $2`,
		id, requesterID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrReservationNotFound
	}
	return nil
}

// ListForUser returns the user's reservations in insertion order.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]*model.Reservation, error) {
	query := `
		SELECT id, lane_id, owner_id, start_at, end_at, created_at
		FROM reservations
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// ListForLane returns reservations for laneID overlapping [start, end).
func (r *Repository) ListForLane(ctx context.Context, laneID int, start, end time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT id, lane_id, owner_id, start_at, end_at, created_at
		FROM reservations
		WHERE ` + overlapCondition + `
		ORDER BY start_at
	`

	rows, err := r.pool.Query(ctx, query, laneID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list lane reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// ListAll returns every reservation, optionally filtered to a UTC date.
func (r *Repository) ListAll(ctx context.Context, day time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT id, lane_id, owner_id, start_at, end_at, created_at
		FROM reservations
	`
	var args []any

	if !day.IsZero() {
		dayStart := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
		query += ` WHERE start_at >= $1 AND start_at < $2`
		args = append(args, dayStart, dayStart.AddDate(0, 0, 1))
	}

	query += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// scanReservation scans a single row into a Reservation model.
func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID,
		&res.LaneID,
		&res.OwnerID,
		&res.Start,
		&res.End,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// collectReservations drains rows into Reservation models.
func collectReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}
	return out, nil
}
