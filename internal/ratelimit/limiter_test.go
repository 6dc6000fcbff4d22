package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestAllowUpToLimit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := NewWithClock(30, 60*time.Second, clock.Now)

	for i := 0; i < 30; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}

	if limiter.Allow("10.0.0.1") {
		t.Error("request 31 should be rejected")
	}
}

func TestWindowSlides(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := NewWithClock(2, 60*time.Second, clock.Now)

	if !limiter.Allow("client") || !limiter.Allow("client") {
		t.Fatal("first two requests should be admitted")
	}
	if limiter.Allow("client") {
		t.Fatal("third request inside the window should be rejected")
	}

	// After the window fully elapses the next request is admitted again.
	clock.Advance(61 * time.Second)
	if !limiter.Allow("client") {
		t.Error("request after window elapsed should be admitted")
	}
}

func TestRejectedRequestNotRecorded(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := NewWithClock(1, 60*time.Second, clock.Now)

	limiter.Allow("client")
	for i := 0; i < 5; i++ {
		limiter.Allow("client") // rejected, must not extend the window
	}

	clock.Advance(61 * time.Second)
	if !limiter.Allow("client") {
		t.Error("rejections must not count against the window")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := NewWithClock(1, 60*time.Second, clock.Now)

	if !limiter.Allow("a") {
		t.Fatal("first request for a should be admitted")
	}
	if limiter.Allow("a") {
		t.Error("second request for a should be rejected")
	}
	if !limiter.Allow("b") {
		t.Error("b must not be affected by a's bucket")
	}
}

func TestConcurrentSameKey(t *testing.T) {
	limiter := New(10, time.Minute)

	var wg sync.WaitGroup
	admitted := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared") {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	if count != 10 {
		t.Errorf("admitted %d requests, want exactly 10", count)
	}
}
