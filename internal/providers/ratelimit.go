package providers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultRequestsPerMinute applies when a client is configured without a rate.
const defaultRequestsPerMinute = 120

// RateLimiter paces the requests of one client. The per-minute budget is
// also the burst, so a cold client can fan out a whole batch of chunk calls
// at once. A 429 empties the budget and pauses every caller until the
// provider's retry window has passed.
type RateLimiter struct {
	limiter *rate.Limiter
	perMin  int

	mu          sync.Mutex
	pausedUntil time.Time
	last429     time.Time
	consumed    int64
	waited      time.Duration
}

// RateLimiterStatus is a point-in-time view of a RateLimiter.
type RateLimiterStatus struct {
	TokensAvailable int           `json:"tokens_available"`
	TokensLimit     int           `json:"tokens_limit"`
	Utilization     float64       `json:"utilization"`
	TimeUntilToken  time.Duration `json:"time_until_token"`
	TotalConsumed   int64         `json:"total_consumed"`
	TotalWaited     time.Duration `json:"total_waited"`
	Last429Time     time.Time     `json:"last_429_time,omitempty"`
}

// NewRateLimiter returns a limiter allowing requestsPerMinute requests per
// minute. Non-positive values fall back to defaultRequestsPerMinute.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}
	perSecond := rate.Limit(float64(requestsPerMinute) / 60)
	return &RateLimiter{
		limiter: rate.NewLimiter(perSecond, requestsPerMinute),
		perMin:  requestsPerMinute,
	}
}

// Wait blocks until the request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	if pause := r.pauseRemaining(start); pause > 0 {
		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	r.mu.Lock()
	r.consumed++
	r.waited += time.Since(start)
	r.mu.Unlock()
	return nil
}

// Record429 notes a rate-limit response. A positive retryAfter empties the
// budget and holds all callers for that long.
func (r *RateLimiter) Record429(retryAfter time.Duration) {
	now := time.Now()

	r.mu.Lock()
	r.last429 = now
	if retryAfter > 0 {
		if until := now.Add(retryAfter); until.After(r.pausedUntil) {
			r.pausedUntil = until
		}
	}
	r.mu.Unlock()

	if retryAfter > 0 {
		if n := int(r.limiter.TokensAt(now)); n > 0 {
			r.limiter.AllowN(now, n)
		}
	}
}

// Status reports the limiter's current state.
func (r *RateLimiter) Status() RateLimiterStatus {
	now := time.Now()
	tokens := r.limiter.TokensAt(now)
	pause := r.pauseRemaining(now)
	if pause > 0 {
		tokens = 0
	}
	if tokens < 0 {
		tokens = 0
	}

	var untilToken time.Duration
	if tokens < 1 {
		missing := 1 - tokens
		untilToken = time.Duration(missing / float64(r.limiter.Limit()) * float64(time.Second))
		if pause > untilToken {
			untilToken = pause
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return RateLimiterStatus{
		TokensAvailable: int(tokens),
		TokensLimit:     r.perMin,
		Utilization:     max(0, 1-tokens/float64(r.perMin)),
		TimeUntilToken:  untilToken,
		TotalConsumed:   r.consumed,
		TotalWaited:     r.waited,
		Last429Time:     r.last429,
	}
}

func (r *RateLimiter) pauseRemaining(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Before(r.pausedUntil) {
		return r.pausedUntil.Sub(now)
	}
	return 0
}
