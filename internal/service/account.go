package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/auth"
	"github.com/lanekeeper/lanekeeper/internal/metrics"
	"github.com/lanekeeper/lanekeeper/internal/model"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

// Auth is the result of a successful login or registration.
type Auth struct {
	Token string
	User  model.PublicUser
}

// AccountService is the authorization gate: it registers users, exchanges
// credentials for session tokens and resolves tokens back to identities.
type AccountService struct {
	users    store.UserStore
	sessions store.SessionStore
	metrics  metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users store.UserStore, sessions store.SessionStore, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:    users,
		sessions: sessions,
		metrics:  recorder,
	}
}

// Register creates a new user and logs them in.
func (s *AccountService) Register(ctx context.Context, username, secret, displayName string) (*Auth, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" || secret == "" || displayName == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	user := &model.User{
		ID:          auth.NewUserID(),
		Username:    username,
		SecretHash:  hash,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncRegistration()
	return s.openSession(ctx, user)
}

// Login exchanges credentials for a fresh session token.
// Unknown usernames and wrong secrets are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, secret string) (*Auth, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifySecret(secret, user.SecretHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLoginSuccess()
	return s.openSession(ctx, user)
}

// Resolve translates a session token into an authenticated identity.
func (s *AccountService) Resolve(ctx context.Context, token string) (*model.AuthContext, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		// A session pointing at a vanished user is treated as absent.
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return &model.AuthContext{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	}, nil
}

// Logout destroys the session. Destroying an absent token is not an error.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *AccountService) openSession(ctx context.Context, user *model.User) (*Auth, error) {
	session := &model.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &Auth{
		Token: session.Token,
		User:  user.Public(),
	}, nil
}
