package adapters

import (
	"context"
	"sync"
	"time"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// ErrRateLimitExceeded is returned when no token is available for a key.
var ErrRateLimitExceeded = &RateLimitError{Message: "rate limit exceeded"}

// RateLimitError distinguishes throttling from other acquisition failures.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// TokenBucket is a per-key token bucket rate limiter. Each key gets its own
// bucket so concurrent sessions throttle independently.
type TokenBucket struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   int
	refillRate time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates a rate limiter where each key's bucket holds up to
// capacity tokens and regains one token every refillRate.
func NewTokenBucket(capacity int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
	}
}

// Acquire takes one token for key, returning a release function that puts
// it back. Returns ErrRateLimitExceeded when the bucket is empty.
func (tb *TokenBucket) Acquire(ctx context.Context, key string) (release func(), err error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, lastRefill: time.Now()}
		tb.buckets[key] = b
	}

	elapsed := time.Since(b.lastRefill)
	if refilled := int(elapsed / tb.refillRate); refilled > 0 {
		b.tokens = min(b.tokens+refilled, tb.capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(refilled) * tb.refillRate)
	}

	if b.tokens <= 0 {
		return nil, ErrRateLimitExceeded
	}
	b.tokens--

	release = func() {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		if b, ok := tb.buckets[key]; ok {
			b.tokens = min(b.tokens+1, tb.capacity)
		}
	}

	return release, nil
}

var _ ports.RateLimiter = (*TokenBucket)(nil)
