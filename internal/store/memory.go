package store

import (
	"context"
	"sync"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/model"
)

// MemoryLedger is the in-memory ReservationStore. A single RWMutex over the
// whole ledger serializes mutations; with a small bounded lane count this is
// sufficient and keeps the check-then-insert trivially atomic. Reads take the
// shared lock and copy records out, so callers never observe a partially
// applied mutation.
type MemoryLedger struct {
	mu           sync.RWMutex
	reservations []*model.Reservation
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// FindOverlapping returns any reservation for laneID overlapping [start, end).
func (l *MemoryLedger) FindOverlapping(ctx context.Context, laneID int, start, end time.Time) (*model.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findOverlappingLocked(laneID, start, end), nil
}

// Create inserts res unless the slot is taken. Check and insert run under a
// single write lock.
func (l *MemoryLedger) Create(ctx context.Context, res *model.Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if conflict := l.findOverlappingLocked(res.LaneID, res.Start, res.End); conflict != nil {
		return ErrSlotTaken
	}

	stored := *res
	l.reservations = append(l.reservations, &stored)
	return nil
}

// Delete removes the reservation when it exists and requesterID owns it.
func (l *MemoryLedger) Delete(ctx context.Context, id, requesterID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, r := range l.reservations {
		if r.ID == id && r.OwnerID == requesterID {
			l.reservations = append(l.reservations[:i], l.reservations[i+1:]...)
			return nil
		}
	}
	return ErrReservationNotFound
}

// ListForUser returns the user's reservations in insertion order.
func (l *MemoryLedger) ListForUser(ctx context.Context, userID string) ([]*model.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*model.Reservation
	for _, r := range l.reservations {
		if r.OwnerID == userID {
			out = append(out, copyReservation(r))
		}
	}
	return out, nil
}

// ListForLane returns reservations for laneID overlapping [start, end).
func (l *MemoryLedger) ListForLane(ctx context.Context, laneID int, start, end time.Time) ([]*model.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*model.Reservation
	for _, r := range l.reservations {
		if r.LaneID == laneID && r.Overlaps(start, end) {
			out = append(out, copyReservation(r))
		}
	}
	return out, nil
}

// ListAll returns every reservation, optionally filtered to a UTC date.
func (l *MemoryLedger) ListAll(ctx context.Context, day time.Time) ([]*model.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*model.Reservation
	for _, r := range l.reservations {
		if !day.IsZero() && !sameUTCDate(r.Start, day) {
			continue
		}
		out = append(out, copyReservation(r))
	}
	return out, nil
}

func (l *MemoryLedger) findOverlappingLocked(laneID int, start, end time.Time) *model.Reservation {
	for _, r := range l.reservations {
		if r.LaneID == laneID && r.Overlaps(start, end) {
			return copyReservation(r)
		}
	}
	return nil
}

func copyReservation(r *model.Reservation) *model.Reservation {
	c := *r
	return &c
}

func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// MemoryUsers is the in-memory UserStore.
type MemoryUsers struct {
	mu         sync.RWMutex
	byID       map[string]*model.User
	byUsername map[string]*model.User
}

// NewMemoryUsers creates an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
	}
}

// Create inserts a new user; the username must be unused.
func (s *MemoryUsers) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return ErrUsernameTaken
	}

	stored := *user
	s.byID[stored.ID] = &stored
	s.byUsername[stored.Username] = &stored
	return nil
}

// GetByID returns the user with the given id.
func (s *MemoryUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *user
	return &c, nil
}

// GetByUsername returns the user with the given username.
func (s *MemoryUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *user
	return &c, nil
}

// MemorySessions is the in-memory SessionStore.
type MemorySessions struct {
	mu      sync.RWMutex
	byToken map[string]*model.Session
}

// NewMemorySessions creates an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{byToken: make(map[string]*model.Session)}
}

// Put stores the session.
func (s *MemorySessions) Put(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	s.byToken[stored.Token] = &stored
	return nil
}

// Get returns the session for the token.
func (s *MemorySessions) Get(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	c := *session
	return &c, nil
}

// Delete destroys the session; absent tokens are ignored.
func (s *MemorySessions) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byToken, token)
	return nil
}
