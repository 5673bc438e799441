package edgar

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum interval between outbound SEC requests.
// A single token is ever in the bucket, so a caller can never accumulate
// slack across calls: Wait always blocks for at least the deficit to the
// next allowed tick before releasing.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter builds a limiter that permits at most one request per
// minInterval. A non-positive minInterval disables throttling.
func NewRateLimiter(minIntervalSeconds float64) *RateLimiter {
	if minIntervalSeconds <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	interval := time.Duration(minIntervalSeconds * float64(time.Second))
	return &RateLimiter{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until a request may proceed, or returns ctx.Err() if the
// context is cancelled first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.lim.Wait(ctx)
}
