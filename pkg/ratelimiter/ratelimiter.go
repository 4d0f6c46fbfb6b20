package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError tells the caller how long to wait before retrying.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter counts failures per key in redis. A nil client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(scope, subject string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, subject)
}

// Check returns a RateLimitError once subject reached max hits in scope.
func (l *Limiter) Check(ctx context.Context, scope, subject string, max int64) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	count, err := l.rdb.Get(ctx, key(scope, subject)).Int64()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if count < max {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(scope, subject)).Result()
	if err != nil {
		return fmt.Errorf("failed to read rate limit ttl: %w", err)
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("too many attempts, try again in %.0f seconds", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

// Hit records one attempt; the window starts at the first hit.
func (l *Limiter) Hit(ctx context.Context, scope, subject string, window time.Duration) (int64, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}

	k := key(scope, subject)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt in redis: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count, nil
}

func (l *Limiter) Reset(ctx context.Context, scope, subject string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(scope, subject)).Err()
}
