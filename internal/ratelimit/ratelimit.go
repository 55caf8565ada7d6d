// Package ratelimit implements the token bucket throttles that protect
// the bot: one bucket per Telegram sender for raw message volume, and a
// stricter per-sender budget for LLM calls.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a single token bucket. It is safe for concurrent use.
//
// Tokens refill at refillRate per second up to maxTokens, and every
// allowed request consumes one token. A sender who bursts past the
// bucket capacity is throttled until tokens refill.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// New creates a bucket with the given burst capacity and refill rate.
//
// Example:
//
//	// 6 messages of burst, one token back every 5 seconds
//	limiter := ratelimit.New(6, 0.2)
func New(maxTokens, refillRate float64) *Limiter {
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// refill adds tokens based on elapsed time since last refill.
// Must be called with mu held.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()

	l.tokens += elapsed * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
	l.lastRefill = now
}

// Allow reports whether one request fits in the budget, consuming a
// token when it does. Non-blocking.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true
	}

	return false
}

// Available returns the current number of tokens.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens
}

// IsFull reports whether the bucket is back at capacity. A full bucket
// means the sender has been idle long enough for cleanup to forget it.
func (l *Limiter) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens >= l.maxTokens
}

// Reset refills the bucket to capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = l.maxTokens
	l.lastRefill = time.Now()
}
