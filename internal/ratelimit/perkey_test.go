package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestPerKeyLimiter_Allow(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     3,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	// The burst passes
	for i := 0; i < 3; i++ {
		if !limiter.Allow("1001") {
			t.Errorf("Message %d should be allowed", i+1)
		}
	}

	// The 4th message from the same sender is throttled
	if limiter.Allow("1001") {
		t.Error("4th message should be throttled")
	}

	// A different sender has their own bucket
	if !limiter.Allow("1002") {
		t.Error("Different sender should be allowed")
	}
}

func TestPerKeyLimiter_EmptyKey(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.1,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	// An empty key is never throttled
	for i := 0; i < 10; i++ {
		if !limiter.Allow("") {
			t.Error("Empty key should always be allowed")
		}
	}
}

func TestPerKeyLimiter_OnDrop(t *testing.T) {
	dropCount := 0
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: 1 * time.Minute,
	})
	limiter.OnDrop(func() {
		dropCount++
	})
	defer limiter.Stop()

	limiter.Allow("1001")

	// Second message is throttled and fires the callback
	limiter.Allow("1001")

	if dropCount != 1 {
		t.Errorf("Expected 1 drop, got %d", dropCount)
	}
}

func TestPerKeyLimiter_GetAvailable(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     10,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	// A sender with no bucket yet reports the full burst
	if got := limiter.GetAvailable("2001"); got != 10 {
		t.Errorf("Expected 10 tokens for new sender, got %f", got)
	}

	limiter.Allow("2001")
	limiter.Allow("2001")

	if got := limiter.GetAvailable("2001"); got >= 10 {
		t.Errorf("Expected fewer than 10 tokens after messages, got %f", got)
	}
}

func TestPerKeyLimiter_GetActiveCount(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     10,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	if limiter.GetActiveCount() != 0 {
		t.Error("Expected 0 buckets initially")
	}

	limiter.Allow("1001")
	limiter.Allow("1002")
	limiter.Allow("1003")

	if limiter.GetActiveCount() != 3 {
		t.Errorf("Expected 3 buckets, got %d", limiter.GetActiveCount())
	}
}

func TestPerKeyLimiter_Cleanup(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     10,
		RefillRate:    1000, // Fast refill for testing
		CleanupPeriod: 100 * time.Millisecond,
	})
	defer limiter.Stop()

	limiter.Allow("1001")
	limiter.Allow("1002")

	// Wait for cleanup; the fast refill has both buckets back at capacity
	time.Sleep(300 * time.Millisecond)

	if limiter.GetActiveCount() != 0 {
		t.Errorf("Expected 0 buckets after cleanup, got %d", limiter.GetActiveCount())
	}
}

func TestPerKeyLimiter_Stop(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     10,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})

	// Should not panic
	limiter.Stop()
	limiter.Stop() // Safe to call multiple times
}

func TestPerKeyLimiter_Concurrent(t *testing.T) {
	limiter := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     100,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			for j := 0; j < 10; j++ {
				limiter.Allow("1001")
			}
		})
	}
	wg.Wait()
}
