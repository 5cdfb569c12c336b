package roles

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix namespaces the resolution mirror, matching the client's
// local-storage namespace.
const cacheKeyPrefix = "nostr-ads:role:"

const defaultCacheTTL = 5 * time.Minute

// Cache mirrors resolver output into Redis for fast UI reads. It is advisory
// only: authorization decisions never read from it, it is populated only from
// resolver responses, and it is invalidated on every role-change event.
type Cache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (c *Cache) key(userID uuid.UUID) string {
	return cacheKeyPrefix + userID.String()
}

// Set stores a resolution mirror. Errors are dropped — a cold mirror is fine.
func (c *Cache) Set(ctx context.Context, userID uuid.UUID, res Resolution) {
	if c == nil || c.Rdb == nil {
		return
	}
	ttl := c.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.Rdb.Set(ctx, c.key(userID), b, ttl).Err()
}

// Get returns the mirrored resolution if present. Diagnostic use only.
func (c *Cache) Get(ctx context.Context, userID uuid.UUID) (*Resolution, bool) {
	if c == nil || c.Rdb == nil {
		return nil, false
	}
	b, err := c.Rdb.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var res Resolution
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false
	}
	return &res, true
}

// Invalidate drops the mirror for a user.
func (c *Cache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.Rdb == nil {
		return
	}
	_ = c.Rdb.Del(ctx, c.key(userID)).Err()
}
