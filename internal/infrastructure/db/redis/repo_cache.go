package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const repoCacheTTL = 5 * time.Minute

// RepoCache caches Github repository lookups so repeated profile views do
// not hammer the upstream API. Key format: github:repos:<username>.
type RepoCache struct {
	client *redis.Client
}

// NewRepoCache creates a RepoCache wrapping the given Redis client.
func NewRepoCache(client *redis.Client) *RepoCache {
	return &RepoCache{client: client}
}

func (c *RepoCache) key(username string) string {
	return fmt.Sprintf("github:repos:%s", username)
}

// Get returns the cached upstream body for a username. A missing key is
// reported as ok=false with a nil error.
func (c *RepoCache) Get(ctx context.Context, username string) (json.RawMessage, bool, error) {
	val, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo cache get: %w", err)
	}
	return json.RawMessage(val), true, nil
}

// Set stores the upstream body with the cache TTL.
func (c *RepoCache) Set(ctx context.Context, username string, body json.RawMessage) error {
	if err := c.client.Set(ctx, c.key(username), []byte(body), repoCacheTTL).Err(); err != nil {
		return fmt.Errorf("repo cache set: %w", err)
	}
	return nil
}
