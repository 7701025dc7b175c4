package glossa

import (
	"context"
	"sync"
	"time"
)

// RateLimitConfig configures a RateLimiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate, 60 when unset
	BurstSize         int // Requests allowed back to back, RequestsPerMinute when unset
}

// RateLimiter is a token bucket. Callers that find it empty reserve a future
// token and sleep exactly until it is due, so waiters are served in order.
type RateLimiter struct {
	mu     sync.Mutex
	tokens float64 // Negative while reservations are outstanding
	burst  float64
	perSec float64
	last   time.Time
	now    func() time.Time
}

// NewRateLimiter returns a limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	l := &RateLimiter{
		burst:  float64(burst),
		perSec: float64(rpm) / 60,
		now:    time.Now,
	}
	l.tokens = l.burst
	l.last = l.now()
	return l
}

// advance credits the tokens earned since the last call. Callers hold mu.
func (l *RateLimiter) advance() {
	now := l.now()
	if elapsed := now.Sub(l.last); elapsed > 0 {
		l.tokens = min(l.burst, l.tokens+elapsed.Seconds()*l.perSec)
	}
	l.last = now
}

// reserve takes one token and returns how long the caller must wait before
// using it.
func (l *RateLimiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	l.tokens--
	if l.tokens >= 0 {
		return 0
	}
	return time.Duration(-l.tokens / l.perSec * float64(time.Second))
}

// release hands back a reservation that was not used.
func (l *RateLimiter) release() {
	l.mu.Lock()
	l.tokens = min(l.burst, l.tokens+1)
	l.mu.Unlock()
}

// Wait blocks until the caller may send one request or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wait := l.reserve()
	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		l.release()
		return ctx.Err()
	}
}

// TryAcquire takes a token if one is available right now.
func (l *RateLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Available reports the tokens in the bucket. It is negative while callers
// are waiting on reservations.
func (l *RateLimiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advance()
	return l.tokens
}

// RateLimitedBackend delays calls to the wrapped backend to stay under a
// request rate.
type RateLimitedBackend struct {
	backend Backend
	limiter *RateLimiter
}

// NewRateLimitedBackend wraps backend with a limiter built from cfg.
func NewRateLimitedBackend(backend Backend, cfg RateLimitConfig) *RateLimitedBackend {
	return &RateLimitedBackend{backend: backend, limiter: NewRateLimiter(cfg)}
}

// Generate implements Backend.
func (b *RateLimitedBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Message: "gave up waiting for rate limit",
			Cause:   err,
			Reason:  ReasonCanceled,
		}
	}
	return b.backend.Generate(ctx, req)
}

// Limiter exposes the limiter, mainly for tests.
func (b *RateLimitedBackend) Limiter() *RateLimiter {
	return b.limiter
}
