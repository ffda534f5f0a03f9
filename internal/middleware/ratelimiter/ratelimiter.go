// Package ratelimiter implements a per-identity token bucket.
//
// Each identity (IP, email) gets its own bucket which refills at a fixed
// rate. Idle buckets are dropped after expiration so the map does not grow
// with every client the server has ever seen.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time

	identity string
	timer    *time.Timer
	parent   *Limiter
}

// Limiter manages token buckets for multiple identities.
type Limiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	rate       float64 // tokens per second
	burst      float64
	expiration time.Duration
}

// New creates a Limiter allowing `rate` requests per second with bursts up
// to `burst`. Buckets idle for `expiration` are evicted.
func New(rate, burst float64, expiration time.Duration) *Limiter {
	return &Limiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		burst:      burst,
		expiration: expiration,
	}
}

// Allow reports whether a request from identity should proceed.
func (l *Limiter) Allow(identity string) bool {
	return l.bucket(identity).take()
}

func (l *Limiter) bucket(identity string) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[identity]
	l.mu.RUnlock()
	if ok {
		b.resetTimer()
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// another goroutine may have created it while we upgraded the lock
	if b, ok = l.buckets[identity]; ok {
		b.resetTimer()
		return b
	}

	b = &bucket{
		tokens:     l.burst,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     l,
	}
	l.buckets[identity] = b
	b.resetTimer()
	return b
}

func (l *Limiter) evict(identity string) {
	l.mu.Lock()
	delete(l.buckets, identity)
	l.mu.Unlock()
}

// Stop cancels all eviction timers.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.buckets {
		if b.timer != nil {
			b.timer.Stop()
		}
	}
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.parent.rate
	if b.tokens > b.parent.burst {
		b.tokens = b.parent.burst
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (b *bucket) resetTimer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expiration, func() {
		b.parent.evict(b.identity)
	})
}
