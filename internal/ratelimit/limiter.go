// Package ratelimit implements a per-client sliding-window request limiter.
// The applicable count for a client is the number of admissions inside the
// trailing window ending now, so there are no reset-boundary bursts.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks admission timestamps per client key. State lives in process
// memory only and is cleared on restart. Keys are never evicted; a client
// that goes quiet keeps its empty bucket.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	buckets map[string][]time.Time
}

// New creates a limiter admitting at most max requests per key inside any
// trailing window.
func New(max int, window time.Duration) *Limiter {
	return NewWithClock(max, window, time.Now)
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(max int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     now,
		buckets: make(map[string][]time.Time),
	}
}

// Allow reports whether a request for key is admitted right now. Check and
// append happen under one lock so concurrent requests from the same key
// cannot both pass the count check.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Timestamps are appended in order, so expired entries sit at the front.
	bucket := l.buckets[key]
	trim := 0
	for trim < len(bucket) && bucket[trim].Before(cutoff) {
		trim++
	}
	bucket = bucket[trim:]

	if len(bucket) >= l.max {
		l.buckets[key] = bucket
		return false
	}

	l.buckets[key] = append(bucket, now)
	return true
}
