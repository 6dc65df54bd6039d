package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limiter middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit (tokens added per second).
	RequestsPerSecond float64
	// Burst is the maximum number of requests allowed in a burst.
	Burst int
}

const (
	limiterSweepInterval = 5 * time.Minute
	limiterStaleAfter    = 10 * time.Minute
)

// clientLimiter tracks a per-client rate limiter and when it was last seen.
// lastSeen holds unix nanoseconds and is updated concurrently.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// limiterStore holds per-client limiters and evicts stale ones inline on
// the request path, at most once per limiterSweepInterval.
type limiterStore struct {
	cfg       RateLimitConfig
	clients   sync.Map // map[string]*clientLimiter
	lastSweep atomic.Int64
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	now := time.Now()
	s.maybeSweep(now)

	if v, ok := s.clients.Load(ip); ok {
		cl := v.(*clientLimiter)
		cl.lastSeen.Store(now.UnixNano())
		return cl.limiter
	}
	cl := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.Burst)}
	cl.lastSeen.Store(now.UnixNano())
	s.clients.Store(ip, cl)
	return cl.limiter
}

// maybeSweep removes clients idle for longer than limiterStaleAfter. The
// compare-and-swap lets only one caller per interval do the walk.
func (s *limiterStore) maybeSweep(now time.Time) {
	last := s.lastSweep.Load()
	if now.UnixNano()-last < int64(limiterSweepInterval) {
		return
	}
	if !s.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-limiterStaleAfter).UnixNano()
	s.clients.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			s.clients.Delete(key)
		}
		return true
	})
}

// RateLimiter returns an HTTP middleware that enforces a per-client token-bucket
// rate limit. When the limit is exceeded, it responds with 429 Too Many Requests
// and sets standard rate-limit headers.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	store := &limiterStore{cfg: cfg}
	store.lastSweep.Store(time.Now().UnixNano())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := store.get(clientIP(r))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				// Limiter cannot grant the request even with infinite wait.
				writeTooManyRequests(w, 0)
				return
			}

			delay := reservation.Delay()
			if delay > 0 {
				// Request would exceed the rate — cancel the reservation and reject.
				reservation.Cancel()
				retryAfter := int(delay.Seconds()) + 1
				writeTooManyRequests(w, retryAfter)
				return
			}

			// Set rate-limit headers on all responses.
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP address from the request, stripping the port.
// Only uses RemoteAddr — X-Forwarded-For is untrusted and ignored to prevent
// rate-limit bypass via header spoofing.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeTooManyRequests(w http.ResponseWriter, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "rate limit exceeded",
		"detail": "too many requests, slow down",
	})
}
