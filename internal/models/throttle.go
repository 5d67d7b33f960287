package models

import (
	"sync"
	"time"
)

// Throttle tracks the last command time per user and rejects commands
// that arrive faster than the configured interval.
type Throttle struct {
	lastSeen map[int64]time.Time
	interval time.Duration
	mu       sync.Mutex
}

// NewThrottle creates a throttle with the given minimum interval between
// commands from the same user. A cleanup goroutine drops stale entries.
func NewThrottle(interval time.Duration) *Throttle {
	t := &Throttle{
		lastSeen: make(map[int64]time.Time),
		interval: interval,
	}

	go t.cleanupStale()

	return t
}

// Allow records an attempt for the user and reports whether it may proceed.
func (t *Throttle) Allow(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if last, ok := t.lastSeen[userID]; ok && now.Sub(last) < t.interval {
		return false
	}

	t.lastSeen[userID] = now
	return true
}

// cleanupStale periodically removes entries old enough to be irrelevant.
func (t *Throttle) cleanupStale() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		t.mu.Lock()
		cutoff := time.Now().Add(-t.interval * 10)
		for userID, last := range t.lastSeen {
			if last.Before(cutoff) {
				delete(t.lastSeen, userID)
			}
		}
		t.mu.Unlock()
	}
}
