// Package ratelimit throttles brute-force-sensitive endpoints per client.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientTTL is how long an idle client's bucket survives before eviction.
// Long enough that an attacker cannot reset their budget by pausing briefly.
const clientTTL = 10 * time.Minute

// client pairs a token bucket with its last activity for eviction.
type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key. Keys are client IPs hitting
// the credential endpoints; each starts with a full burst and refills at the
// configured sustained rate, independently of every other client.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing rps sustained requests per key, with burst
// tokens available immediately to a fresh client.
func New(rps float64, burst int) *Limiter {
	l := &Limiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go l.evictLoop()

	return l
}

// Allow reports whether the client identified by key may proceed, consuming
// one token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = time.Now()
	l.mu.Unlock()

	return c.bucket.Allow()
}

// Stop shuts down the eviction goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// evictLoop periodically drops buckets for clients that went quiet, keeping
// the map bounded by recent traffic rather than by every IP ever seen.
func (l *Limiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictStale(time.Now())
		case <-l.done:
			return
		}
	}
}

// evictStale removes clients idle since before now minus the TTL.
func (l *Limiter) evictStale(now time.Time) {
	cutoff := now.Add(-clientTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}
