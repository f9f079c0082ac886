// Package ratelimit provides a fixed-window per-client rate limiter
// for mutating endpoints.
package ratelimit

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"registro/internal/log"
)

// Limiter implements a simple fixed-window rate limiter per client
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	config   Config

	totalHits int64

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// Metrics tracks rate limiting activity
type Metrics struct {
	TotalHits   int64
	ClientCount int
}

// DefaultConfig returns sensible defaults for rate limiting
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter with the given configuration
func NewLimiter(config Config) *Limiter {
	rl := &Limiter{
		requests:    make(map[string][]time.Time),
		config:      config,
		stopCleanup: make(chan struct{}),
	}

	go rl.startCleanup()

	return rl
}

// Allow checks if a request from the given client should be allowed
func (rl *Limiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-time.Minute)

	requests := rl.requests[clientID]

	// Keep only requests inside the current window
	validRequests := requests[:0]
	for _, reqTime := range requests {
		if reqTime.After(windowStart) {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= rl.config.RequestsPerMinute {
		rl.requests[clientID] = validRequests
		atomic.AddInt64(&rl.totalHits, 1)
		return false
	}

	rl.requests[clientID] = append(validRequests, now)
	return true
}

// ActiveClients returns the number of clients currently tracked
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}

// GetMetrics returns current rate limiting metrics
func (rl *Limiter) GetMetrics() Metrics {
	rl.mu.Lock()
	clients := len(rl.requests)
	rl.mu.Unlock()

	return Metrics{
		TotalHits:   atomic.LoadInt64(&rl.totalHits),
		ClientCount: clients,
	}
}

// startCleanup periodically removes stale client entries
func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes clients with no recent requests
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	removed := 0

	for clientID, requests := range rl.requests {
		hasRecent := false
		for _, reqTime := range requests {
			if reqTime.After(cutoff) {
				hasRecent = true
				break
			}
		}
		if !hasRecent {
			delete(rl.requests, clientID)
			removed++
		}
	}

	if removed > 0 {
		slog.Debug("Rate limiter cleanup completed",
			log.FieldComponent, log.ComponentRateLimit,
			"removed_clients", removed,
			"active_clients", len(rl.requests))
	}
}

// Stop shuts down the cleanup goroutine
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Middleware returns HTTP middleware that enforces the rate limit.
// extractIP resolves the client identity; onLimit, when not nil, is
// invoked for every rejected request.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(r *http.Request, clientIP string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractIP(r)

			if !rl.Allow(clientIP) {
				if onLimit != nil {
					onLimit(r, clientIP)
				}
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldComponent, log.ComponentRateLimit,
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
