package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const redisKeyPrefix = "seniko:ratelimit:"

// RedisCounter is the subset of *redis.Client used by RedisLimiter.
type RedisCounter interface {
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// RedisLimiter shares windows between server instances through Redis.
// Each window is one counter key; its TTL is refreshed to one window on
// every hit, so it outlives its window by at most one window length.
type RedisLimiter struct {
	rdb RedisCounter
	cfg Config
	now func() time.Time
}

// NewRedisLimiter creates a Redis-backed fixed-window limiter.
func NewRedisLimiter(rdb RedisCounter, cfg Config) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg.withDefaults(), now: time.Now}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, oops.Code("RATELIMIT_REDIS_URL").Wrapf(err, "parse redis url")
	}
	return redis.NewClient(opt), nil
}

// Allow counts one request for key in the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	idx, end := windowIndex(now, l.cfg.Window)
	redisKey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, idx)

	// INCR and EXPIRE run in one MULTI/EXEC so a counter never exists
	// without a TTL.
	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.cfg.Window)
		return nil
	})
	if err != nil {
		return Decision{}, oops.Code("RATELIMIT_REDIS_FAILED").
			With("operation", "incr+expire").
			With("key", redisKey).
			Wrap(err)
	}
	count := incr.Val()

	return decide(count, l.cfg.Permits, now, end), nil
}
