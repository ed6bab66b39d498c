package productr

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines client-side throttling parameters for a group of
// endpoints.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// IdentityLimit bounds how fast the client will hit the identity endpoints.
// The backend enforces its own limits; this keeps a buggy retry loop on the
// caller side from tripping them. Allows 5 requests per minute with all 5
// available as a burst, matching the backend's strict profile.
var IdentityLimit = RateLimitConfig{
	RequestsPerWindow: 5,
	Window:            time.Minute,
	Burst:             5,
}

type limiter struct {
	rl *rate.Limiter
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.RequestsPerWindow <= 0 || cfg.Window <= 0 {
		return &limiter{rl: rate.NewLimiter(rate.Inf, 0)}
	}

	every := cfg.Window / time.Duration(cfg.RequestsPerWindow)
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &limiter{rl: rate.NewLimiter(rate.Every(every), burst)}
}

// wait blocks until a request slot is available or the context is done.
func (l *limiter) wait(ctx context.Context) error {
	if l == nil || l.rl == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}
