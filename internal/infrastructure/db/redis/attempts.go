package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockWindow  = 15 * time.Minute
)

// AttemptLimiter throttles failed sign-ins per username, backed by Redis.
// Key format: signin:attempts:<username>
type AttemptLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter wrapping the given Redis
// client. Non-positive max or window fall back to the defaults.
func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	if max <= 0 {
		max = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultLockWindow
	}
	return &AttemptLimiter{client: client, max: max, window: window}
}

// TooMany reports whether the username has reached the failure limit within
// the current window.
func (l *AttemptLimiter) TooMany(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("attempt check: %w", err)
	}
	return n >= l.max, nil
}

// RecordFailure increments the failure counter; the first failure in a
// window starts the expiry clock.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("record failure: set expiry: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful sign-in.
func (l *AttemptLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *AttemptLimiter) key(username string) string {
	return fmt.Sprintf("signin:attempts:%s", username)
}
