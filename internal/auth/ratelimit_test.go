package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("Allows until the attempt limit", func(t *testing.T) {
		rl := newTestLimiter()
		defer rl.Stop()

		for i := 0; i < 2; i++ {
			locked, _ := rl.RecordFailure("10.0.0.1", "ana@example.com")
			assert.False(t, locked)
			allowed, _ := rl.Allow("10.0.0.1", "ana@example.com")
			assert.True(t, allowed)
		}

		locked, _ := rl.RecordFailure("10.0.0.1", "ana@example.com")
		assert.True(t, locked)
		allowed, retryAfter := rl.Allow("10.0.0.1", "ana@example.com")
		assert.False(t, allowed)
		assert.Greater(t, retryAfter, time.Duration(0))
	})

	t.Run("Pairs are tracked independently", func(t *testing.T) {
		rl := newTestLimiter()
		defer rl.Stop()

		for i := 0; i < 3; i++ {
			rl.RecordFailure("10.0.0.1", "ana@example.com")
		}

		allowed, _ := rl.Allow("10.0.0.2", "ana@example.com")
		assert.True(t, allowed)
		allowed, _ = rl.Allow("10.0.0.1", "boris@example.com")
		assert.True(t, allowed)
	})

	t.Run("Success clears the record", func(t *testing.T) {
		rl := newTestLimiter()
		defer rl.Stop()

		for i := 0; i < 3; i++ {
			rl.RecordFailure("10.0.0.1", "ana@example.com")
		}
		rl.RecordSuccess("10.0.0.1", "ana@example.com")

		allowed, _ := rl.Allow("10.0.0.1", "ana@example.com")
		assert.True(t, allowed)
	})
}
