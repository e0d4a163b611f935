package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter is a small sliding-window limiter keyed by client address
// and action, applied to the endpoints anonymous visitors can hammer.
type rateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	perWindow int
	hits      map[string][]time.Time
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		window:    time.Minute,
		perWindow: perMinute,
		hits:      make(map[string][]time.Time),
	}
}

func (l *rateLimiter) Allow(key string) bool {
	if l == nil || l.perWindow <= 0 {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(cutoff) {
			recent = append(recent, hit)
		}
	}
	if len(recent) >= l.perWindow {
		l.hits[key] = recent
		return false
	}
	l.hits[key] = append(recent, now)
	return true
}

func (s *Server) enforceRateLimit(w http.ResponseWriter, r *http.Request, action string) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if s.limiter.Allow(action + ":" + host) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, "too many requests")
	return false
}
