package glossa

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how transient backend failures are retried.
type RetryConfig struct {
	MaxRetries int           // Attempts after the first one
	BaseDelay  time.Duration // Delay before the first retry, doubled each time
	MaxDelay   time.Duration // Upper bound for any single delay

	// OnRetry is called before sleeping, with the attempt that failed
	// (starting at 1). Optional.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// delay returns the backoff before retry number attempt (starting at 1).
// A server-provided Retry-After wins when it is longer.
func (c RetryConfig) delay(attempt int, err error) time.Duration {
	d := c.BaseDelay << (attempt - 1)
	if d <= 0 || (c.MaxDelay > 0 && d > c.MaxDelay) {
		d = c.MaxDelay
	}

	var perr *ProviderError
	if errors.As(err, &perr) && perr.RetryAfter > d {
		d = perr.RetryAfter
		if c.MaxDelay > 0 && d > c.MaxDelay {
			d = c.MaxDelay
		}
	}
	return d
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry calls fn until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx is done. The last error is returned as is.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt > cfg.MaxRetries || !IsRetryable(err) {
			return zero, err
		}

		wait := cfg.delay(attempt, err)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether err is a transient backend failure.
// Caller cancellations and malformed responses are never retried. A backend
// that timed out is, even though its cause is context.DeadlineExceeded.
func IsRetryable(err error) bool {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Retryable && perr.Reason != ReasonCanceled
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// RetryableBackend retries transient failures of the wrapped backend.
type RetryableBackend struct {
	backend Backend
	config  RetryConfig
}

// NewRetryableBackend wraps backend with cfg's retry policy.
func NewRetryableBackend(backend Backend, cfg RetryConfig) *RetryableBackend {
	return &RetryableBackend{backend: backend, config: cfg}
}

// Generate implements Backend.
func (b *RetryableBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return WithRetry(ctx, b.config, func() (string, error) {
		return b.backend.Generate(ctx, req)
	})
}
