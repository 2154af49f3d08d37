package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateCache maps OAuth state nonces to the user who started the consent
// flow. Entries are single-use and expire with the consent window.
type StateCache interface {
	Set(ctx context.Context, state, userID string) error
	Consume(ctx context.Context, state string) (string, error)
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateCache creates a new OAuth state cache
func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *stateCache) key(state string) string {
	return "oauthstate:" + state
}

func (c *stateCache) Set(ctx context.Context, state, userID string) error {
	return c.client.Set(ctx, c.key(state), userID, c.ttl).Err()
}

// Consume returns the user for a state and deletes it. Unknown or expired
// states return ("", nil).
func (c *stateCache) Consume(ctx context.Context, state string) (string, error) {
	userID, err := c.client.GetDel(ctx, c.key(state)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
