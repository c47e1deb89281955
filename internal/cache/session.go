package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lanekeeper/lanekeeper/internal/model"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

// sessionKeyPrefix is the Redis key prefix for sessions.
const sessionKeyPrefix = "session:"

// cachedSession is the Redis representation of a session.
type cachedSession struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PutSession stores the session. Sessions carry no TTL; see DESIGN.md for
// the open question on expiry.
func (c *Cache) PutSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(cachedSession{
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKeyPrefix + session.Token
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession retrieves the session for the token.
func (c *Cache) GetSession(ctx context.Context, token string) (*model.Session, error) {
	key := sessionKeyPrefix + token

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat as absent.
		return nil, store.ErrSessionNotFound
	}

	return &model.Session{
		Token:     token,
		UserID:    cached.UserID,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// DeleteSession destroys the session; absent tokens are ignored.
func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Sessions adapts the cache to the store.SessionStore interface.
func (c *Cache) Sessions() store.SessionStore {
	return sessionStore{c}
}

type sessionStore struct {
	cache *Cache
}

func (s sessionStore) Put(ctx context.Context, session *model.Session) error {
	return s.cache.PutSession(ctx, session)
}

func (s sessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	return s.cache.GetSession(ctx, token)
}

func (s sessionStore) Delete(ctx context.Context, token string) error {
	return s.cache.DeleteSession(ctx, token)
}
