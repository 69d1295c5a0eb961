package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter counts requests per client IP over a fixed window. It keeps
// everything in memory; restarting the server resets all counters, which
// is acceptable for its only job of slowing down login brute force.
type RateLimiter struct {
	mu      sync.Mutex
	seen    map[string]*window
	limit   int
	within  time.Duration
	nowFunc func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, within time.Duration) *RateLimiter {
	rl := &RateLimiter{
		seen:    make(map[string]*window),
		limit:   limit,
		within:  within,
		nowFunc: time.Now,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether another request from ip fits in the current window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFunc()
	w, ok := rl.seen[ip]
	if !ok || now.Sub(w.start) > rl.within {
		rl.seen[ip] = &window{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= rl.limit
}

func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(rl.within)
		rl.mu.Lock()
		now := rl.nowFunc()
		for ip, w := range rl.seen {
			if now.Sub(w.start) > rl.within {
				delete(rl.seen, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Limit is mux middleware rejecting over-limit clients with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	// X-Forwarded-For may carry a proxy chain; only the first hop
	// identifies the client.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}
