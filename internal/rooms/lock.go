package rooms

import (
	"context"
	"time"

	"videocall-service/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// Locker serializes call creation per group across processes. The store's
// partial unique index already guarantees the one-active invariant; the lock
// just keeps racing creators from burning inserts, so acquisition failure is
// reported but never blocks the operation.
type Locker interface {
	Acquire(ctx context.Context, groupID string) (release func(), ok bool, err error)
}

// RedisLocker implements Locker on top of the shared redis lock helpers.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, groupID string) (func(), bool, error) {
	key := "vc:create-lock:" + groupID
	token, ok, err := utils.AcquireLock(ctx, l.rdb, key, l.ttl)
	if err != nil || !ok {
		return nil, ok, err
	}
	release := func() {
		_ = utils.ReleaseLock(ctx, l.rdb, key, token)
	}
	return release, true, nil
}
