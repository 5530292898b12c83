package authsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterProgressiveBackoff(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Close()

	const ip = "203.0.113.5"

	ok, _ := rl.Allow(ip)
	assert.True(t, ok)

	assert.Equal(t, delay1stFailure, rl.RecordFailure(ip))
	assert.Equal(t, delay2ndFailure, rl.RecordFailure(ip))
	assert.Equal(t, delay3rdFailure, rl.RecordFailure(ip))

	ok, _ = rl.Allow(ip)
	assert.True(t, ok, "third failure alone must not yet lock the IP out")

	assert.Equal(t, lockoutDuration, rl.RecordFailure(ip))

	ok, retryAfter := rl.Allow(ip)
	assert.False(t, ok)
	assert.Greater(t, retryAfter, lockoutDuration-lockoutDuration/10)
}

func TestRateLimiterSuccessClearsFailures(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Close()

	const ip = "203.0.113.6"
	rl.RecordFailure(ip)
	rl.RecordFailure(ip)
	rl.RecordSuccess(ip)

	ok, _ := rl.Allow(ip)
	assert.True(t, ok)
}

func TestRateLimiterUnknownIPAllowed(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Close()

	ok, retryAfter := rl.Allow("198.51.100.9")
	assert.True(t, ok)
	assert.Zero(t, retryAfter)
}
