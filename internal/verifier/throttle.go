package verifier

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// Throttler provides adaptive rate limiting shared by all probes of a
// Verifier. On 429 or 503 responses it halves the request rate; healthy
// responses gradually restore the configured rate. It only delays probes,
// it never retries them. A nil *Throttler means no limit.
type Throttler struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	base    rate.Limit
	min     rate.Limit
	logger  *slog.Logger
}

// NewThrottler returns a throttler allowing perSecond requests per second,
// or nil when perSecond is not positive.
func NewThrottler(perSecond float64, logger *slog.Logger) *Throttler {
	if perSecond <= 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := rate.Limit(perSecond)
	return &Throttler{
		limiter: rate.NewLimiter(base, 1),
		base:    base,
		min:     base / 16,
		logger:  logger,
	}
}

// Wait blocks until the next request may start or ctx is done.
func (t *Throttler) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// Limit returns the current requests-per-second limit.
func (t *Throttler) Limit() rate.Limit {
	if t == nil {
		return rate.Inf
	}
	return t.limiter.Limit()
}

// RecordStatus updates the rate based on a response status code.
func (t *Throttler) RecordStatus(statusCode int) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.limiter.Limit()
	if statusCode == 429 || statusCode == 503 {
		next := current / 2
		if next < t.min {
			next = t.min
		}
		if next != current {
			t.limiter.SetLimit(next)
			t.logger.Warn("Rate limited, slowing down",
				slog.Int("status", statusCode),
				slog.Float64("requests_per_second", float64(next)))
		}
		return
	}

	if current < t.base {
		next := min(current*2, t.base)
		t.limiter.SetLimit(next)
		t.logger.Debug("Recovering request rate", slog.Float64("requests_per_second", float64(next)))
	}
}
