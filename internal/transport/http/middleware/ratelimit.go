package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CounterStore is a shared fixed-window hit counter. Incr bumps the counter
// for key, starting a fresh window of the given length when none is live, and
// returns the hit count inside the current window.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// WindowLimiter enforces a fixed-window quota against a shared counter store,
// so the limit holds across instances.
type WindowLimiter struct {
	store  CounterStore
	name   string
	window time.Duration
	limit  int64
	keyFn  func(r *http.Request) string
}

// NewWindowLimiter builds a limiter named name allowing limit requests per
// window. keyFn derives the counter key from the request; KeyByIP is the
// usual choice.
func NewWindowLimiter(store CounterStore, name string, window time.Duration, limit int64, keyFn func(r *http.Request) string) *WindowLimiter {
	return &WindowLimiter{store: store, name: name, window: window, limit: limit, keyFn: keyFn}
}

// Limit is the middleware handler enforcing the quota. Counter-store outages
// fail open: blocking all logins because the counter table is down is worse
// than briefly not rate limiting.
func (l *WindowLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.name + ":" + l.keyFn(r)
		hits, err := l.store.Incr(r.Context(), key, l.window)
		if err != nil {
			slog.Error("rate-limit counter unavailable", "limiter", l.name, "err", err)
			next.ServeHTTP(w, r)
			return
		}
		if hits > l.limit {
			writeJSONError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// KeyByIP keys the counter on the client address.
func KeyByIP(r *http.Request) string {
	return RealIP(r)
}

// KeyByIPAndEmail keys the counter on client address plus the email field of
// the JSON body, so one address cannot burn another account's quota and one
// account cannot be hammered from one address. The body is re-buffered for
// the handler.
func KeyByIPAndEmail(r *http.Request) string {
	ip := RealIP(r)
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return ip
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Email == "" {
		return ip
	}
	return ip + ":" + strings.ToLower(payload.Email)
}

// RealIP resolves the client address behind proxies: first X-Forwarded-For
// hop, then X-Real-IP, then the socket address.
func RealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token-bucket limiter with automatic stale-entry
// cleanup. It is in-memory and per-instance; the shared WindowLimiter covers
// the endpoints where a hard cross-instance quota matters.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	r        rate.Limit
	burst    int
}

// NewRateLimiter creates a per-IP limiter: r requests/second, burst up to
// burst requests.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		r:        r,
		burst:    burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.limiters[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.limiters[ip] = &ipLimiter{limiter: l, lastSeen: time.Now()}
	return l
}

// cleanup removes stale entries every 5 minutes.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.limiters {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.limiters, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Limit is the middleware handler that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.get(RealIP(r)).Allow() {
			writeJSONError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
