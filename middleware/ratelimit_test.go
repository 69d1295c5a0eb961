package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(limit int, within time.Duration, now *time.Time) *RateLimiter {
	return &RateLimiter{
		seen:    make(map[string]*window),
		limit:   limit,
		within:  within,
		nowFunc: func() time.Time { return *now },
	}
}

func TestAllowWithinLimit(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(3, time.Minute, &now)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth request should be blocked")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other clients are unaffected")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(1, time.Minute, &now)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request should be blocked")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request after the window should be allowed")
	}
}

func TestLimitMiddleware(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(1, time.Minute, &now)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Real-IP", "9.9.9.9")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}

func TestClientIPPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1:5555" {
		t.Fatalf("clientIP = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "2.2.2.2")
	if got := clientIP(req); got != "2.2.2.2" {
		t.Fatalf("clientIP = %q", got)
	}

	// A forwarded chain buckets on the first hop only, so appending
	// fake upstream entries cannot mint fresh rate-limit buckets.
	req.Header.Set("X-Forwarded-For", " 2.2.2.2 , 8.8.8.8, 7.7.7.7")
	if got := clientIP(req); got != "2.2.2.2" {
		t.Fatalf("clientIP with chain = %q", got)
	}

	req.Header.Set("X-Real-IP", "3.3.3.3")
	if got := clientIP(req); got != "3.3.3.3" {
		t.Fatalf("clientIP = %q", got)
	}
}
