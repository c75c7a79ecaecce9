package parser

import (
	"context"
	"time"
)

// RateLimiter spaces out sequential operations by a fixed interval.
type RateLimiter struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewRateLimiter creates a new rate limiter with the specified interval.
//
// Example usage:
//
//	limiter := parser.NewRateLimiter(1500 * time.Millisecond)
//	defer limiter.Stop()
//
//	for _, ref := range refs {
//	    if err := limiter.Wait(ctx); err != nil {
//	        return err
//	    }
//	    // ... perform rate-limited operation ...
//	}
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Wait blocks until the next tick or until ctx is done.
// A nil limiter never blocks.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return ctx.Err()
	}
	select {
	case <-rl.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the underlying ticker.
func (rl *RateLimiter) Stop() {
	if rl != nil {
		rl.ticker.Stop()
	}
}

// GetInterval returns the configured interval for this rate limiter.
func (rl *RateLimiter) GetInterval() time.Duration {
	if rl == nil {
		return 0
	}
	return rl.interval
}
