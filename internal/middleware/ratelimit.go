package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the per-client rate limiter
type RateLimiterConfig struct {
	// RequestsPerSecond is the steady-state rate per client
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst
	BurstSize int

	// IdleTTL drops a client's limiter after this long without requests
	IdleTTL time.Duration

	// KeyFunc extracts the rate limit key from the request.
	// Default: GetClientIP (the connection's address). Use
	// GetForwardedClientIP only behind a proxy that overwrites the
	// forwarding headers.
	KeyFunc func(r *http.Request) string
}

// DefaultRateLimiterConfig returns limits suited to the lookup API, where
// a cascading form issues a few requests per user interaction.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 20,
		BurstSize:         40,
		IdleTTL:           5 * time.Minute,
		KeyFunc:           GetClientIP,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	config  RateLimiterConfig
	clients map[string]*clientLimiter
	mu      sync.Mutex
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter. Idle clients are pruned
// lazily on Allow.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 5 * time.Minute
	}
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// Clients returns the number of tracked client keys.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) prune(now time.Time) {
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.config.IdleTTL {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns an HTTP middleware that applies rate limiting
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.config.KeyFunc(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetForwardedClientIP extracts the client IP from X-Forwarded-For or
// X-Real-IP, falling back to GetClientIP.
//
// Note: these headers are set by the client unless a reverse proxy
// overwrites them. Only use this when direct access to the application is
// not possible, otherwise a client can rotate the header to dodge limits.
func GetForwardedClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return GetClientIP(r)
}

// GetClientIP returns the IP of the connection's remote address. Forwarding
// headers are ignored.
func GetClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
