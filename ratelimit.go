package gecko

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitConfig controls the fixed-window rate limiter.
type RateLimitConfig struct {
	// MaxRequests allowed per client within the window.
	MaxRequests int
	// Window duration; the counter resets when it elapses.
	Window time.Duration
	// Message returned with the 429 response.
	Message string
	// SkipPaths are exempt from limiting, e.g. health checks.
	SkipPaths []string
}

// DefaultRateLimitConfig allows 100 requests per minute per client.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 100,
		Window:      time.Minute,
		Message:     "too many requests, please try again later",
	}
}

type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// RateLimit returns middleware that tracks requests per client address and
// short-circuits with 429 once the window budget is spent. The counter map
// is the middleware's own state, guarded by its own lock; the router stays
// lock-free.
func RateLimit(cfg RateLimitConfig) MiddlewareFunc {
	var mu sync.Mutex
	entries := make(map[string]*rateLimitEntry)

	return func(c *Context) {
		for _, path := range cfg.SkipPaths {
			if c.Request().URL.Path == path {
				c.Next()
				return
			}
		}

		key := clientAddr(c.Request())
		now := time.Now()

		mu.Lock()
		entry := entries[key]
		if entry == nil || now.Sub(entry.windowStart) >= cfg.Window {
			entry = &rateLimitEntry{windowStart: now}
			entries[key] = entry
		}
		entry.count++
		over := entry.count > cfg.MaxRequests
		retryAfter := entry.windowStart.Add(cfg.Window).Sub(now)
		mu.Unlock()

		if over {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.SendJSON(http.StatusTooManyRequests, map[string]string{"error": cfg.Message})
			return
		}

		c.Next()
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
