package controller

import (
	"sync"
	"time"
)

type sessionEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions hands out one Controller per browser session.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	newFn   func(key string) *Controller
	now     func() time.Time
}

// NewSessions constructs a registry that builds controllers with newFn.
func NewSessions(newFn func(key string) *Controller) *Sessions {
	return &Sessions{
		entries: make(map[string]*sessionEntry),
		newFn:   newFn,
		now:     time.Now,
	}
}

// NewSessionsWithClock constructs a registry with a custom clock (used in tests).
func NewSessionsWithClock(newFn func(key string) *Controller, now func() time.Time) *Sessions {
	s := NewSessions(newFn)
	s.now = now
	return s
}

// Get returns the controller for key, creating it on first use.
func (s *Sessions) Get(key string) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &sessionEntry{ctrl: s.newFn(key)}
		s.entries[key] = e
	}
	e.lastSeen = s.now()
	return e.ctrl
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops idle sessions not seen for longer than maxIdle and returns how
// many were removed. Sessions that are loading are kept. Controller state is
// read without holding the registry lock.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-maxIdle)
	stale := make(map[string]*sessionEntry)
	for key, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			stale[key] = e
		}
	}
	s.mu.Unlock()

	for key, e := range stale {
		if e.ctrl.State() != StateIdle {
			delete(stale, key)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range stale {
		// Skip entries touched or replaced since the scan.
		if cur, ok := s.entries[key]; ok && cur == e && e.lastSeen.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
