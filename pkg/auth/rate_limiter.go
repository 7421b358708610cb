package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenBucketLimiter implements token bucket rate limiting in process memory
type TokenBucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
	idleTTL    time.Duration
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucketLimiter creates a limiter holding maxTokens per key, adding
// one token every refillRate
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
		idleTTL:    time.Hour,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go limiter.cleanup(5 * time.Minute)

	return limiter
}

// NewPerMinuteLimiter allows a burst of requestsPerMinute and refills at the
// same rate
func NewPerMinuteLimiter(requestsPerMinute int) *TokenBucketLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return NewTokenBucketLimiter(requestsPerMinute, time.Minute/time.Duration(requestsPerMinute))
}

// Allow checks if a request is allowed
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{tokens: l.maxTokens, lastRefill: now}
		l.buckets[key] = b
	}

	if added := int(now.Sub(b.lastRefill) / l.refillRate); added > 0 {
		b.tokens = min(b.tokens+added, l.maxTokens)
		b.lastRefill = b.lastRefill.Add(time.Duration(added) * l.refillRate)
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// Reset resets the rate limit for a key
func (l *TokenBucketLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
	return nil
}

// Close stops the background cleanup
func (l *TokenBucketLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// cleanup removes idle buckets periodically
func (l *TokenBucketLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, b := range l.buckets {
				if now.Sub(b.lastRefill) > l.idleTTL {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
