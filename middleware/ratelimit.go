package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateLimiter struct {
	requests map[string]*clientRequest
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time

	// sweepInline purges expired entries from allow when no background
	// cleanup goroutine runs.
	sweepInline bool
	lastSweep   time.Time
}

type clientRequest struct {
	count     int
	resetTime time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		requests: make(map[string]*clientRequest),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// allow counts one request from key. It returns false with the time left
// in the window once the limit is reached.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if rl.sweepInline && now.Sub(rl.lastSweep) >= rl.window {
		rl.purge(now)
		rl.lastSweep = now
	}
	client, exists := rl.requests[key]
	if !exists || now.After(client.resetTime) {
		rl.requests[key] = &clientRequest{count: 1, resetTime: now.Add(rl.window)}
		return true, 0
	}
	if client.count >= rl.limit {
		return false, client.resetTime.Sub(now)
	}
	client.count++
	return true, 0
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.purge(rl.now())
}

// purge drops expired entries. Callers hold mu.
func (rl *rateLimiter) purge(now time.Time) {
	for ip, client := range rl.requests {
		if now.After(client.resetTime) {
			delete(rl.requests, ip)
		}
	}
}

// RateLimiter allows limit requests per client IP in each window. Expired
// entries are purged every window until done is closed. With a nil done no
// goroutine is started and requests purge expired entries instead.
func RateLimiter(limit int, window time.Duration, done <-chan struct{}) gin.HandlerFunc {
	limiter := newRateLimiter(limit, window)

	if done == nil {
		limiter.sweepInline = true
	} else {
		go func() {
			ticker := time.NewTicker(window)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					limiter.cleanup()
				case <-done:
					return
				}
			}
		}()
	}

	return func(c *gin.Context) {
		ok, retry := limiter.allow(c.ClientIP())
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retry.Seconds(),
			})
			return
		}
		c.Next()
	}
}
