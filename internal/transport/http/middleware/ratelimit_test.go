package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeCounter is an in-memory CounterStore for tests.
type fakeCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func (f *fakeCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hits == nil {
		f.hits = map[string]int64{}
	}
	f.hits[key]++
	return f.hits[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- RealIP ---

func TestRealIP_XForwardedFor_FirstHop(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", RealIP(r))
}

func TestRealIP_XRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", RealIP(r))
}

func TestRealIP_FallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:51234"
	assert.Equal(t, "198.51.100.7", RealIP(r))
}

// --- WindowLimiter ---

func TestWindowLimiter_AllowsUpToLimit(t *testing.T) {
	fc := &fakeCounter{}
	wl := NewWindowLimiter(fc, "login", 15*time.Minute, 5, KeyByIP)
	h := wl.Limit(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestWindowLimiter_SeparateKeysSeparateQuotas(t *testing.T) {
	fc := &fakeCounter{}
	wl := NewWindowLimiter(fc, "login", 15*time.Minute, 1, KeyByIP)
	h := wl.Limit(okHandler())

	r1 := httptest.NewRequest(http.MethodPost, "/login", nil)
	r1.Header.Set("X-Real-IP", "203.0.113.1")
	r2 := httptest.NewRequest(http.MethodPost, "/login", nil)
	r2.Header.Set("X-Real-IP", "203.0.113.2")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r1)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, r2)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWindowLimiter_StoreError_FailsOpen(t *testing.T) {
	fc := &fakeCounter{err: errors.New("table offline")}
	wl := NewWindowLimiter(fc, "login", 15*time.Minute, 1, KeyByIP)
	h := wl.Limit(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// --- KeyByIPAndEmail ---

func TestKeyByIPAndEmail_IncludesEmail(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"A@B.com","password":"x"}`))
	r.Header.Set("X-Real-IP", "203.0.113.9")

	key := KeyByIPAndEmail(r)
	assert.Equal(t, "203.0.113.9:a@b.com", key)

	// The body must still be readable by the handler.
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "A@B.com")
}

func TestKeyByIPAndEmail_NoEmail_FallsBackToIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", KeyByIPAndEmail(r))
}

// --- in-memory RateLimiter ---

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 2)
	h := rl.Limit(okHandler())

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "198.51.100.7:1000"
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
