package rooms

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveCache keeps a short-lived copy of each group's active record so
// status polls don't hit Postgres on every request. Misses and redis errors
// both fall through to the repository; the cache is never authoritative.
type ActiveCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewActiveCache(rdb *redis.Client, ttl time.Duration) *ActiveCache {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ActiveCache{rdb: rdb, ttl: ttl}
}

func cacheKey(groupID string) string {
	return "vc:active:" + groupID
}

func (c *ActiveCache) Get(ctx context.Context, groupID string) (CallRecord, bool) {
	if c == nil || c.rdb == nil {
		return CallRecord{}, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(groupID)).Bytes()
	if err != nil {
		// redis.Nil and transport errors are both just misses
		return CallRecord{}, false
	}
	var r CallRecord
	if err := json.Unmarshal(raw, &r); err != nil || !r.Active {
		return CallRecord{}, false
	}
	return r, true
}

func (c *ActiveCache) Set(ctx context.Context, rec CallRecord) {
	if c == nil || c.rdb == nil || !rec.Active {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, cacheKey(rec.GroupID), raw, c.ttl).Err()
}

func (c *ActiveCache) Invalidate(ctx context.Context, groupID string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, cacheKey(groupID)).Err()
}
