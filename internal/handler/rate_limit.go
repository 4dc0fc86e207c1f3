package handler

import (
	"net"
	"net/http"
	"sync"
	"time"

	"scholar-lens/internal/domain"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles research backend calls per user. Anonymous callers are
// keyed by remote address instead.
type RateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu    sync.Mutex
	users map[string]*userLimiter
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Limit(perSecond),
		burst: burst,
		now:   time.Now,
		users: make(map[string]*userLimiter),
	}
}

// Allow reports whether key may make another request now.
func (l *RateLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	u, ok := l.users[key]
	if !ok {
		u = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.users[key] = u
	}
	u.lastSeen = now
	l.mu.Unlock()

	return u.limiter.AllowN(now, 1)
}

// Prune forgets limiters idle for longer than maxIdle and returns how many
// were dropped.
func (l *RateLimiter) Prune(maxIdle time.Duration) int {
	cutoff := l.now().Add(-maxIdle)

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, u := range l.users {
		if u.lastSeen.Before(cutoff) {
			delete(l.users, key)
			dropped++
		}
	}
	return dropped
}

// Limit wraps next so requests over the caller's budget get a 429.
func (l *RateLimiter) Limit(next http.HandlerFunc) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(limiterKey(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	})
}

func limiterKey(r *http.Request) string {
	user, ok := GetUserFromContext(r)
	if ok && user.ID != domain.AnonymousUserID {
		return "user:" + user.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
