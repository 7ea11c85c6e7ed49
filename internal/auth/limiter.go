package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles repeated failed logins per email using a Redis
// counter with a sliding expiry. A nil limiter (or one built without a
// Redis client) allows everything, so the service degrades gracefully
// when Redis is not configured.
type LoginLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewLoginLimiter builds a limiter. client may be nil.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, max: maxAttempts, window: window}
}

// Allow reports whether a login attempt for the email may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.client == nil {
		return true
	}
	count, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		// Redis unavailable or no failures recorded yet.
		return true
	}
	return count < l.max
}

// RecordFailure bumps the failure counter for the email.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	key := l.key(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = l.client.Expire(ctx, key, l.window).Err()
	}
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	_ = l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login_fail:" + strings.ToLower(strings.TrimSpace(email))
}
