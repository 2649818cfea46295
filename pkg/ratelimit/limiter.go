package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for per-client rate limiting. Keys are
// client identities, typically remote addresses.
type Limiter interface {
	// Allow checks if a request from the given client is allowed
	Allow(key string) bool
	// Reset resets the rate limiter state for all clients
	Reset()
}

// window tracks one client's fixed window.
type window struct {
	count int
	start time.Time
}

// FixedWindow implements a fixed-window rate limiter keyed by client.
// The window resets a full period after the first request in it, not on
// a sliding basis.
type FixedWindow struct {
	maxRequests int
	period      time.Duration
	clients     map[string]*window
	mu          sync.Mutex
}

// NewFixedWindow creates a fixed-window limiter allowing maxRequests per
// period for each client.
func NewFixedWindow(maxRequests int, period time.Duration) *FixedWindow {
	return &FixedWindow{
		maxRequests: maxRequests,
		period:      period,
		clients:     make(map[string]*window),
	}
}

// Allow checks if a request from key can proceed. Expired windows are
// reset lazily on the client's next request.
func (fw *FixedWindow) Allow(key string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := time.Now()

	w, ok := fw.clients[key]
	if !ok || now.Sub(w.start) > fw.period {
		fw.clients[key] = &window{count: 1, start: now}
		return true
	}

	if w.count >= fw.maxRequests {
		return false
	}

	w.count++
	return true
}

// Reset clears all recorded windows.
func (fw *FixedWindow) Reset() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.clients = make(map[string]*window)
}
