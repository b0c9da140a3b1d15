// Package stealth holds the broadcast "target is hidden" flag read by every
// guard's perception.
package stealth

import "sync"

// Signal is a process-wide boolean with serialized writes.
//
// Set reports whether the value actually changed, so the owner can fan the
// change out once per transition instead of once per write.
type Signal struct {
	mu     sync.RWMutex
	active bool
}

// NewSignal creates an inactive signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Set stores v and returns true if it differs from the previous value.
func (s *Signal) Set(v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == v {
		return false
	}
	s.active = v
	return true
}

// Active returns the current value.
func (s *Signal) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}
