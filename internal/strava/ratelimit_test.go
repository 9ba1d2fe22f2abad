package strava

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestRateLimiter_Windows(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	r := newRateLimiter(clock.now, 0)

	for i := 0; i < defaultShortLimit; i++ {
		require.Zero(t, r.reserve(), "request %d", i)
	}

	short, daily := r.Status()
	assert.Equal(t, 0, short)
	assert.Equal(t, defaultDailyLimit-defaultShortLimit, daily)

	// Short window is exhausted until it resets
	delay := r.reserve()
	assert.InDelta(t, shortWindow.Seconds(), delay.Seconds(), 0.01)

	clock.t = clock.t.Add(shortWindow + time.Second)
	assert.Zero(t, r.reserve())

	short, _ = r.Status()
	assert.Equal(t, defaultShortLimit-1, short)
}

func TestRateLimiter_DailyLimit(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 5, 1, 22, 0, 0, 0, time.UTC)}
	r := newRateLimiter(clock.now, 0)

	h := http.Header{}
	h.Set("X-RateLimit-Usage", "5,1000")
	r.UpdateFromHeaders(h)

	delay := r.reserve()
	assert.InDelta(t, (2 * time.Hour).Seconds(), delay.Seconds(), 0.01)
}

func TestRateLimiter_MinInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	r := newRateLimiter(clock.now, time.Second)

	assert.Zero(t, r.reserve())
	assert.Equal(t, time.Second, r.reserve())

	clock.t = clock.t.Add(400 * time.Millisecond)
	assert.Equal(t, 600*time.Millisecond, r.reserve())
}

func TestRateLimiter_UpdateFromHeaders(t *testing.T) {
	r := NewRateLimiter()

	h := http.Header{}
	h.Set("X-RateLimit-Limit", "600, 30000")
	h.Set("X-RateLimit-Usage", "12, 345")
	r.UpdateFromHeaders(h)

	short, daily := r.Status()
	assert.Equal(t, 588, short)
	assert.Equal(t, 29655, daily)

	// Malformed headers are ignored
	h.Set("X-RateLimit-Usage", "lots")
	r.UpdateFromHeaders(h)
	short, _ = r.Status()
	assert.Equal(t, 588, short)
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	r := newRateLimiter(clock.now, time.Hour)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}
