package redis

import (
	"context"
	"encoding/json"
	"time"

	"pdf-assistant/internal/domain/model"
)

// SessionCache is a read-through/write-through cache in front of the
// durable session repository. TTL-bounded; a miss is never an error.
type SessionCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionCache(client RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func key(sessionID string) string { return "session:" + sessionID }

func (c *SessionCache) Store(ctx context.Context, s *model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(s.ID), data, c.ttl)
}

// Get returns (nil, nil) on a miss.
func (c *SessionCache) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := c.client.Get(ctx, key(sessionID))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var s model.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *SessionCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, key(sessionID))
}

func (c *SessionCache) Extend(ctx context.Context, sessionID string) error {
	return c.client.Expire(ctx, key(sessionID), c.ttl)
}
