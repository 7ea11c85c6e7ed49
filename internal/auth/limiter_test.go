package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter_NilLimiterAllowsEverything(t *testing.T) {
	var limiter *LoginLimiter

	assert.True(t, limiter.Allow(context.Background(), "ada@example.com"))
	limiter.RecordFailure(context.Background(), "ada@example.com")
	limiter.Reset(context.Background(), "ada@example.com")
}

func TestLoginLimiter_NoClientAllowsEverything(t *testing.T) {
	limiter := NewLoginLimiter(nil, 2, time.Minute)

	for i := 0; i < 10; i++ {
		limiter.RecordFailure(context.Background(), "ada@example.com")
	}
	assert.True(t, limiter.Allow(context.Background(), "ada@example.com"),
		"without redis the throttle must stay inactive")
}

func TestLoginLimiter_Defaults(t *testing.T) {
	limiter := NewLoginLimiter(nil, 0, 0)

	assert.Equal(t, 5, limiter.max)
	assert.Equal(t, 15*time.Minute, limiter.window)
}

func TestLoginLimiter_KeyNormalizesEmail(t *testing.T) {
	limiter := NewLoginLimiter(nil, 5, time.Minute)

	assert.Equal(t, "login_fail:ada@example.com", limiter.key("  Ada@Example.COM "))
}
