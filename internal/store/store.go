// Package store defines the storage contracts for the application together
// with the in-memory implementations used by the default deployment.
// PostgreSQL and Redis backed implementations live in internal/repository
// and internal/cache.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/model"
)

// Common errors shared by all store implementations.
var (
	ErrSlotTaken           = errors.New("lane already reserved for that interval")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrSessionNotFound     = errors.New("session not found")
)

// ReservationStore is the ledger of reservation records and the sole
// authority on overlap detection.
type ReservationStore interface {
	// FindOverlapping returns any reservation for laneID whose interval
	// overlaps [start, end) under the half-open rule, or nil when the slot
	// is free. When several overlap, returning any one is sufficient.
	FindOverlapping(ctx context.Context, laneID int, start, end time.Time) (*model.Reservation, error)

	// Create inserts the reservation unless an overlapping record already
	// exists for the same lane. The overlap check and the insert execute as
	// one atomic unit with respect to other mutations; on conflict
	// ErrSlotTaken is returned and nothing is inserted.
	Create(ctx context.Context, res *model.Reservation) error

	// Delete removes the reservation only when it exists and is owned by
	// requesterID. Absence and ownership mismatch are both reported as
	// ErrReservationNotFound so existence of foreign reservations is not
	// leaked.
	Delete(ctx context.Context, id, requesterID string) error

	// ListForUser returns the user's reservations in insertion order.
	ListForUser(ctx context.Context, userID string) ([]*model.Reservation, error)

	// ListForLane returns reservations for laneID overlapping [start, end).
	ListForLane(ctx context.Context, laneID int, start, end time.Time) ([]*model.Reservation, error)

	// ListAll returns every reservation in insertion order. A non-zero day
	// restricts the result to reservations starting on that UTC date.
	ListAll(ctx context.Context, day time.Time) ([]*model.Reservation, error)
}

// UserStore holds registered accounts.
type UserStore interface {
	// Create inserts a new user; ErrUsernameTaken when the username exists.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the user with the given id or ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByUsername returns the user with the given username or ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionStore maps opaque tokens to authenticated users.
type SessionStore interface {
	// Put stores the session, overwriting any previous entry for the token.
	Put(ctx context.Context, session *model.Session) error

	// Get returns the session for the token or ErrSessionNotFound.
	Get(ctx context.Context, token string) (*model.Session, error)

	// Delete destroys the session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
