package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter is a sliding-window attempt counter for password logins.
type LoginLimiter interface {
	// Allow records an attempt for key. When the window's budget is spent it
	// returns false and the seconds until the oldest attempt leaves the window.
	Allow(ctx context.Context, key string) (bool, int, error)
	Reset(ctx context.Context, key string) error
}

type redisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	now         func() time.Time
}

func NewLoginLimiter(client *redis.Client, maxAttempts int64, window time.Duration) LoginLimiter {
	return NewLoginLimiterWithClock(client, maxAttempts, window, time.Now)
}

func NewLoginLimiterWithClock(client *redis.Client, maxAttempts int64, window time.Duration, now func() time.Time) LoginLimiter {
	return &redisLoginLimiter{client: client, maxAttempts: maxAttempts, window: window, now: now}
}

func loginKey(key string) string {
	return "login_attempts:" + key
}

func (r *redisLoginLimiter) Allow(ctx context.Context, key string) (bool, int, error) {

	k := loginKey(key)
	now := r.now()
	windowSeconds := int64(r.window.Seconds())
	windowStart := now.Unix() - windowSeconds

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(windowStart, 10))
	// score is seconds for the window maths, member is unique per attempt
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.Unix()), Member: strconv.FormatInt(now.UnixNano(), 10)})
	count := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis pipeline error: %w", err)
	}

	if count.Val() <= r.maxAttempts {
		return true, 0, nil
	}

	oldest, err := r.client.ZRangeWithScores(ctx, k, 0, 0).Result()
	if err != nil {
		return false, int(windowSeconds), fmt.Errorf("failed to read oldest attempt: %w", err)
	}
	if len(oldest) == 0 {
		return false, int(windowSeconds), nil
	}

	retryAfter := int64(oldest[0].Score) + windowSeconds - now.Unix()
	if retryAfter < 1 {
		retryAfter = 1
	}

	return false, int(retryAfter), nil
}

func (r *redisLoginLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, loginKey(key)).Err()
}
