// Package ratelimit provides the per-client limiter applied to post
// creation. A slot is only spent when the post is actually created, so a
// rejected or invalid submission does not count against the caller.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per key (client IP).
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	window   time.Duration
}

// Ticket represents a provisional slot that can be returned with Cancel.
type Ticket struct {
	reservation *rate.Reservation
}

// Cancel gives the slot back, e.g. when the guarded operation failed.
func (t *Ticket) Cancel() {
	if t != nil && t.reservation != nil {
		t.reservation.Cancel()
	}
}

// New creates a Limiter allowing max operations per window for each key.
func New(window time.Duration, max int) *Limiter {
	if max < 1 {
		max = 1
	}
	l := &Limiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(window / time.Duration(max)),
		burst:    max,
		window:   window,
	}
	go l.cleanupStaleEntries()
	return l
}

// Acquire reserves a slot for key. When the limit is exhausted it returns
// ok=false and nothing is spent.
func (l *Limiter) Acquire(key string) (*Ticket, bool) {
	l.mu.Lock()
	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	r := v.limiter.Reserve()
	if !r.OK() || r.Delay() > 0 {
		r.Cancel()
		return nil, false
	}
	return &Ticket{reservation: r}, true
}

func (l *Limiter) cleanupStaleEntries() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-3 * l.window)
		l.mu.Lock()
		for key, v := range l.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(l.visitors, key)
			}
		}
		l.mu.Unlock()
	}
}
