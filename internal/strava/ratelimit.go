package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava allows 100 requests per 15 minutes and 1000 per day by default.
// The response headers carry the live numbers and override these.
const (
	defaultShortLimit = 100
	defaultDailyLimit = 1000
	shortWindow       = 15 * time.Minute
	minInterval       = 150 * time.Millisecond
)

// window is one fixed rate-limit window
type window struct {
	limit    int
	usage    int
	resetsAt time.Time
	next     func(now time.Time) time.Time
}

func (w *window) roll(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = w.next(now)
	}
}

func (w *window) exhausted() bool {
	return w.usage >= w.limit
}

// RateLimiter keeps requests inside Strava's short and daily windows
type RateLimiter struct {
	mu          sync.Mutex
	short       window
	daily       window
	lastRequest time.Time
	minInterval time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a rate limiter with Strava's default limits
func NewRateLimiter() *RateLimiter {
	return newRateLimiter(time.Now, minInterval)
}

func newRateLimiter(now func() time.Time, interval time.Duration) *RateLimiter {
	t := now()
	nextShort := func(t time.Time) time.Time { return t.Add(shortWindow) }
	nextDaily := func(t time.Time) time.Time { return t.Truncate(24 * time.Hour).Add(24 * time.Hour) }

	return &RateLimiter{
		short:       window{limit: defaultShortLimit, resetsAt: nextShort(t), next: nextShort},
		daily:       window{limit: defaultDailyLimit, resetsAt: nextDaily(t), next: nextDaily},
		minInterval: interval,
		now:         now,
	}
}

// Wait blocks until a request can be made without exceeding the limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := r.reserve()
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// reserve counts a request and returns 0, or returns how long to wait first
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.short.roll(now)
	r.daily.roll(now)

	switch {
	case r.daily.exhausted():
		return r.daily.resetsAt.Sub(now) + time.Millisecond
	case r.short.exhausted():
		return r.short.resetsAt.Sub(now) + time.Millisecond
	}

	if elapsed := now.Sub(r.lastRequest); elapsed < r.minInterval {
		return r.minInterval - elapsed
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = now
	return 0
}

// UpdateFromHeaders syncs state with Strava's rate limit headers:
// X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512"
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage, r.daily.usage = short, daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit, r.daily.limit = short, daily
	}
}

func parsePair(v string) (int, int, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Status returns the requests left in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}
