package middleware

import (
	"net/http"
	"sync"
	"time"
)

// loginLimiter throttles requests per client IP with a token bucket. It
// exists to slow down credential stuffing against the login form.
type loginLimiter struct {
	mu     sync.Mutex
	seen   map[string]*tokenBucket
	rate   float64
	burst  float64
	now    func() time.Time
	nextGC time.Time
}

type tokenBucket struct {
	tokens  float64
	updated time.Time
}

func newLoginLimiter(rate float64, burst int) *loginLimiter {
	now := time.Now
	return &loginLimiter{
		seen:   make(map[string]*tokenBucket),
		rate:   rate,
		burst:  float64(burst),
		now:    now,
		nextGC: now().Add(10 * time.Minute),
	}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextGC) {
		l.evictStale(now)
		l.nextGC = now.Add(10 * time.Minute)
	}

	b, ok := l.seen[ip]
	if !ok {
		b = &tokenBucket{tokens: l.burst, updated: now}
		l.seen[ip] = b
	}

	b.tokens += now.Sub(b.updated).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.updated = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// evictStale drops buckets idle long enough to be full again. Caller holds
// the lock.
func (l *loginLimiter) evictStale(now time.Time) {
	cutoff := now.Add(-10 * time.Minute)
	for ip, b := range l.seen {
		if b.updated.Before(cutoff) {
			delete(l.seen, ip)
		}
	}
}

// RateLimit rejects requests beyond rate per second (with the given burst)
// per client IP with 429. Meant to sit in front of POST /login.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := newLoginLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi's RealIP middleware rewrites RemoteAddr from
			// X-Forwarded-For before we get here.
			if !limiter.allow(r.RemoteAddr) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "too many attempts, slow down", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
