package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// FixedWindowLimiter counts requests per key in fixed time windows stored in Redis.
// Every window gets its own counter key, so counters never need to be reset explicitly.
type FixedWindowLimiter struct {
	client   *redis.Client
	log      *logger.Logger
	limit    int
	window   time.Duration
	failOpen bool // allow requests when Redis is unavailable
	now      func() time.Time
}

// NewFixedWindowLimiter creates a limiter allowing limit requests per window and key.
func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration, failOpen bool, log *logger.Logger) *FixedWindowLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &FixedWindowLimiter{
		client:   client,
		log:      log.Named("ratelimit"),
		limit:    limit,
		window:   window,
		failOpen: failOpen,
		now:      time.Now,
	}
}

// Allow consumes one request from the current window of key.
//
// INCRBY and EXPIRE run in one pipeline; the expiry carries a one second buffer so a
// counter never disappears while its window is still current.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	bucketKey := l.bucketKey(key, l.now())

	pipe := l.client.Pipeline()
	incrCmd := pipe.IncrBy(ctx, bucketKey, 1)
	pipe.Expire(ctx, bucketKey, l.window+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		if l.failOpen {
			l.log.WarnContext(ctx, "rate limit check failed, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}, nil
		}
		return Decision{Limit: l.limit}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := incrCmd.Val()
	d := Decision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(count), 0),
	}
	if !d.Allowed {
		d.RetryAfter = l.window
		l.log.DebugContext(ctx, "rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", l.limit),
		)
	}
	return d, nil
}

func (l *FixedWindowLimiter) bucketKey(key string, now time.Time) string {
	bucket := now.Unix() / int64(l.window/time.Second)
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket)
}
