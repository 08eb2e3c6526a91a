package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(requests int, window time.Duration) (*IPRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewIPRateLimiter(requests, window)
	l.now = clock.Now
	return l, clock
}

func TestIPRateLimiterBudget(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "budgets are per IP")

	clock.Advance(20 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiterCleanup(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)
	l.Allow("10.0.0.1")
	clock.Advance(30 * time.Second)
	l.Allow("10.0.0.2")

	clock.Advance(45 * time.Second)
	assert.Equal(t, 1, l.Cleanup())
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "10.0.0.2")
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	calls := 0
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.RemoteAddr = "192.0.2.7:5555"

	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Same host from another port shares the budget.
	req.RemoteAddr = "192.0.2.7:6666"
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", remoteIP(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", remoteIP(req))
}
