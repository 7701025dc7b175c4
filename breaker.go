package glossa

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around a backend.
type BreakerConfig struct {
	Name          string                      // Breaker name, shown in state changes
	MaxFailures   uint32                      // Consecutive failures before the circuit opens
	OpenTimeout   time.Duration               // How long the circuit stays open before a trial call
	OnStateChange func(name, from, to string) // Optional state change hook
}

// DefaultBreakerConfig returns sensible defaults for the circuit breaker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:        "backend",
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// BreakerBackend wraps a Backend with a circuit breaker so a dead backend
// fails fast instead of being hammered by batch and worker runs.
type BreakerBackend struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker
}

// NewBreakerBackend creates a new backend guarded by a circuit breaker.
func NewBreakerBackend(backend Backend, cfg BreakerConfig) *BreakerBackend {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Caller cancellations say nothing about backend health. Backend
		// timeouts do, and carry ReasonTimeout instead.
		IsSuccessful: func(err error) bool {
			return err == nil || ReasonOf(err) == ReasonCanceled
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return &BreakerBackend{
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate implements Backend through the circuit breaker.
func (b *BreakerBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.backend.Generate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &ProviderError{
				Message:   "circuit breaker open",
				Cause:     err,
				Reason:    ReasonCircuitOpen,
				Retryable: false,
			}
		}
		return "", err
	}
	return out.(string), nil
}

// State returns the breaker state ("closed", "half-open" or "open").
func (b *BreakerBackend) State() string {
	return b.cb.State().String()
}
