package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"

	"github.com/gin-gonic/gin"
)

// windowCounter tracks request counts per IP within a sliding window.
type windowCounter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
}

type windowEntry struct {
	count     int
	windowEnd time.Time
}

func newWindowCounter(limit int, window time.Duration) *windowCounter {
	wc := &windowCounter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
	}
	go wc.purge()
	return wc
}

func (wc *windowCounter) allow(ip string) bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	now := time.Now()
	e, ok := wc.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(wc.window)}
		wc.entries[ip] = e
	}
	e.count++
	return e.count <= wc.limit
}

// purge drops expired IPs so the map does not grow with one-off clients.
func (wc *windowCounter) purge() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		wc.mu.Lock()
		for ip, e := range wc.entries {
			if now.After(e.windowEnd) {
				delete(wc.entries, ip)
			}
		}
		wc.mu.Unlock()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	wc := newWindowCounter(20, time.Minute)
	return func(c *gin.Context) {
		if !wc.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, try again in a minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter is a general-purpose per-IP sliding-window limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	wc := newWindowCounter(limit, window)
	return func(c *gin.Context) {
		if !wc.allow(c.ClientIP()) {
			c.Header("Retry-After", time.Now().Add(window).Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests"))
			return
		}
		c.Next()
	}
}
