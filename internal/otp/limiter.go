package otp

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long an email's limiter may go unused before it is dropped.
const idleAfter = time.Hour

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// limiter keeps one token bucket per email.
type limiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

func newLimiter(interval time.Duration, burst int) *limiter {
	return &limiter{
		entries: make(map[string]*limiterEntry),
		every:   rate.Every(interval),
		burst:   burst,
	}
}

func (l *limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > idleAfter {
		for k, e := range l.entries {
			if now.Sub(e.lastUsed) > idleAfter {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.entries[key] = e
	}
	e.lastUsed = now
	return e.limiter.AllowN(now, 1)
}
